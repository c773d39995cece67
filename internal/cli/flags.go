package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bind ties a flag to a config key. Flags take precedence over the config
// file and environment only when set on the command line.
func bind(v *viper.Viper, flag *pflag.Flag, key string) {
	if err := v.BindPFlag(key, flag); err != nil {
		// Only a nil flag fails, which is a wiring bug.
		panic(fmt.Sprintf("bind flag for %s: %v", key, err))
	}
}
