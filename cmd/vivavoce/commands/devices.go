package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vivavoce-ai/vivavoce/internal/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input and output devices",
	Long: `Devices lists the host's audio devices with their channel counts and
default sample rates. Defaults are marked with an asterisk.

Requires a build with the portaudio tag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := device.ListDevices()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("no audio devices found")
			return nil
		}
		for _, info := range infos {
			marker := " "
			if info.DefaultInput || info.DefaultOutput {
				marker = "*"
			}
			fmt.Printf("%s %-40s in:%-2d out:%-2d %6.0f Hz\n",
				marker, info.Name, info.MaxInputs, info.MaxOutputs, info.SampleRate)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
