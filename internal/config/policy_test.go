package config

import (
	"testing"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestEnvPolicy_Defaults(t *testing.T) {
	p := &EnvPolicy{Lookup: func(string) (string, bool) { return "", false }}
	assert.Equal(t, core.Policy{AllowFlirtation: true, AllowAdultContent: false}, p.Policy())
}

func TestEnvPolicy_ReadsFreshEachCall(t *testing.T) {
	vars := map[string]string{"ALLOW_FLIRT": "false"}
	p := &EnvPolicy{Lookup: func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}}

	assert.False(t, p.Policy().AllowFlirtation)

	vars["ALLOW_FLIRT"] = "true"
	vars["ALLOW_ADULT"] = "true"
	got := p.Policy()
	assert.True(t, got.AllowFlirtation)
	assert.True(t, got.AllowAdultContent)
}

func TestEnvPolicy_ProcessEnvironment(t *testing.T) {
	t.Setenv("ALLOW_ADULT", "true")
	assert.True(t, NewEnvPolicy().Policy().AllowAdultContent)
}

func TestEnvPolicy_MalformedFallsBackToDefaults(t *testing.T) {
	p := &EnvPolicy{Lookup: func(k string) (string, bool) {
		if k == "ALLOW_ADULT" {
			return "maybe", true
		}
		return "", false
	}}
	assert.Equal(t, core.Policy{AllowFlirtation: true}, p.Policy())
}
