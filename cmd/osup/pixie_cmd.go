package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raisul587/osup/internal/pixie"
)

func newPixieCmd() *cobra.Command {
	var (
		data       pixie.Data
		pixiewps   string
		force      bool
		showCmd    bool
		keyVersion uint8
	)

	cmd := &cobra.Command{
		Use:   "pixie",
		Short: "run an offline Pixie Dust attack against nonces and hashes recovered from a prior capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyVersion != 0 {
				data.KeyVersion = keyVersion
			} else if data.KeyVersion == 0 {
				data.KeyVersion = pixie.DefaultKeyVersion
			}

			if !data.GotBasic() {
				return fmt.Errorf("pixie: --pke, --pkr, --e-hash1, --e-hash2, --authkey and --e-nonce are all required")
			}

			solver := pixie.NewSolver(pixiewps, slog)
			pin, ok, err := solver.Run(context.Background(), &data, force, showCmd)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("pixie: no strategy recovered a PIN")
			}

			color.Green("recovered WPS PIN: %s", pin)
			return nil
		},
	}

	cmd.Flags().StringVar(&data.PKE, "pke", "", "enrollee public key (hex)")
	cmd.Flags().StringVar(&data.PKR, "pkr", "", "registrar public key (hex)")
	cmd.Flags().StringVar(&data.EHash1, "e-hash1", "", "E-Hash1 (hex)")
	cmd.Flags().StringVar(&data.EHash2, "e-hash2", "", "E-Hash2 (hex)")
	cmd.Flags().StringVar(&data.AuthKey, "authkey", "", "AuthKey (hex)")
	cmd.Flags().StringVar(&data.ENonce, "e-nonce", "", "enrollee nonce (hex)")
	cmd.Flags().StringVar(&data.RNonce, "r-nonce", "", "registrar nonce (hex), enables the extended algorithms")
	cmd.Flags().StringVar(&data.EBSSID, "bssid", "", "target BSSID, enables the extended algorithms")
	cmd.Flags().StringVar(&data.ESNonce, "e-snonce", "", "enrollee SNonce (hex), chipset-specific")
	cmd.Flags().StringVar(&data.RSNonce, "r-snonce", "", "registrar SNonce (hex), chipset-specific")
	cmd.Flags().StringVar(&data.EManufacturer, "vendor", "", "enrollee manufacturer string, enables vendor-specific heuristics")
	cmd.Flags().Uint8Var(&keyVersion, "wps-version", 0, "WPS key_version byte (defaults to 0x10)")
	cmd.Flags().StringVar(&pixiewps, "pixiewps-bin", "pixiewps", "path to the pixiewps binary")
	cmd.Flags().BoolVar(&force, "force", false, "pass --force to widen pixiewps's search beyond its default heuristics")
	cmd.Flags().BoolVar(&showCmd, "show-cmd", false, "print each pixiewps invocation before running it")
	return cmd
}
