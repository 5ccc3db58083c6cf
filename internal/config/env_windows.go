//go:build windows

package config

// windows spells some common unix variables differently
var windowsEnvKeys = map[string]string{
	"HOSTNAME": "COMPUTERNAME",
	"USER":     "USERNAME",
	"HOME":     "USERPROFILE",
}

func mapEnvKey(key string) string {
	if k, ok := windowsEnvKeys[key]; ok {
		return k
	}
	return key
}
