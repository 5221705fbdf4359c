package config

import "os"

func IsDebug() bool {
	return os.Getenv("KIN_DEBUG") == "1"
}
