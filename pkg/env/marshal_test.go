package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Provider string        `env:"LLM_PROVIDER"`
	Timeout  time.Duration `env:"LLM_TIMEOUT"`
	Adult    bool          `env:"ALLOW_ADULT"`
	Owner    int64         `env:"TELEGRAM_OWNER_ID,required"`
	Empty    string        `env:"EMPTY"`
	NoTag    string
}

type other struct {
	Flirt bool   `env:"ALLOW_FLIRT"`
	Addr  string `env:"HTTP_ADDR"`
}

func TestMarshalEnv(t *testing.T) {
	out, err := MarshalEnv(&sample{
		Provider: "openai",
		Timeout:  90 * time.Second,
		Owner:    42,
		NoTag:    "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "ALLOW_ADULT=false\nLLM_PROVIDER=openai\nLLM_TIMEOUT=1m30s\nTELEGRAM_OWNER_ID=42\n", out)
}

func TestMarshalEnv_Multiple(t *testing.T) {
	out, err := MarshalEnv(&sample{Adult: true, Provider: "ollama"}, &other{Addr: ":9090"})
	require.NoError(t, err)
	assert.Equal(t, "ALLOW_ADULT=true\nALLOW_FLIRT=false\nHTTP_ADDR=:9090\nLLM_PROVIDER=ollama\n", out)
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
