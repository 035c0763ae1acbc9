package flagx

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvString overwrites *dst with $key when it is set.
func EnvString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// EnvDuration overwrites *dst with $key parsed by time.ParseDuration. A bare
// integer is read as seconds. Unparseable values leave *dst untouched.
func EnvDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

// EnvBool overwrites *dst with $key parsed by strconv.ParseBool.
func EnvBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}
