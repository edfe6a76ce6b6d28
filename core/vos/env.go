package vos

import (
	"strings"
)

func splitEnv(kv string) (key, value string) {
	split := strings.SplitN(kv, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return
}

// Getenv returns the last value of key in an environment list.
func Getenv(env []string, key string) string {
	value := ""
	for _, kv := range env {
		if k, v := splitEnv(kv); k == key {
			value = v
		}
	}
	return value
}

// MergeEnv returns a copy of env with the variables in overrides set. An
// existing variable keeps its position; new ones are appended in order.
func MergeEnv(env []string, overrides ...string) []string {
	out := make([]string, 0, len(env)+len(overrides))
	index := make(map[string]int)

	set := func(kv string) {
		key, value := splitEnv(kv)
		kv = key + "=" + value
		if i, ok := index[key]; ok {
			out[i] = kv
			return
		}
		index[key] = len(out)
		out = append(out, kv)
	}

	for _, kv := range env {
		set(kv)
	}
	for _, kv := range overrides {
		set(kv)
	}
	return out
}
