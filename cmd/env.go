package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/pagevault/pagevault/color"
	"github.com/pagevault/pagevault/config"
	"github.com/pagevault/pagevault/style"
	"github.com/pagevault/pagevault/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVariable is one supported environment variable with the default it overrides.
type envVariable struct {
	name     string
	fallback string
}

// envVariables lists the config directory override followed by one variable per config field.
func envVariables() []envVariable {
	variables := lo.MapToSlice(config.Default, func(_ string, field config.Field) envVariable {
		return envVariable{name: field.Env(), fallback: fmt.Sprintf("%v", field.Value)}
	})
	sort.Slice(variables, func(i, j int) bool {
		return variables[i].name < variables[j].name
	})

	return append([]envVariable{{name: where.EnvConfigPath}}, variables...)
}

// envCmd displays the current process values for all supported environment variables.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display the supported environment variables, their current process values and the defaults they override.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, variable := range envVariables() {
			value, present := os.LookupEnv(variable.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(variable.name))
			cmd.Print("=")

			switch {
			case present:
				cmd.Println(style.Fg(color.Green)(value))
			case variable.fallback != "" && variable.fallback != "[]":
				cmd.Println(style.Fg(color.Red)("unset") + style.Faint(" (default "+variable.fallback+")"))
			default:
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
