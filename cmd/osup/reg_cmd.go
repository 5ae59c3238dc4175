package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/raisul587/osup/internal/session"
	"github.com/raisul587/osup/internal/store"
)

func newRegCmd() *cobra.Command {
	var (
		iface       string
		drivers     string
		pin         string
		pixiemode   bool
		pbc         bool
		save        bool
		showCmd     bool
		force       bool
		pixiewpsBin string
	)

	cmd := &cobra.Command{
		Use:   "reg <bssid>",
		Short: "attempt a single WPS registration against a target access point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bssid := args[0]

			st, err := newStore()
			if err != nil {
				return err
			}

			sess, err := session.New(session.Options{
				Interface:    iface,
				Drivers:      drivers,
				SaveResult:   save,
				PrintDebug:   verbose,
				PixieForce:   force,
				ShowPixieCmd: showCmd,
				PixiewpsBin:  pixiewpsBin,
			}, st, slog)
			if err != nil {
				return err
			}
			defer sess.Close()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, unix.SIGINT, unix.SIGTERM)
			go func() {
				<-sig
				slog.Warn("interrupt received, cancelling registration attempt")
				sess.Interrupt()
			}()

			ok, err := sess.SingleConnection(context.Background(), bssid, pin, pixiemode, pbc, true)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("reg: WPS registration failed")
			}
			color.Green("WPS registration succeeded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&iface, "interface", "i", "wlan0", "wireless interface to drive wpa_supplicant on")
	cmd.Flags().StringVarP(&drivers, "drivers", "d", "", "wpa_supplicant -D driver list override")
	cmd.Flags().StringVarP(&pin, "pin", "p", "", "WPS PIN to try (defaults to a memoized or MAC-derived candidate)")
	cmd.Flags().BoolVarP(&pixiemode, "pixie", "K", false, "chain into a Pixie Dust attack if the initial PIN is rejected")
	cmd.Flags().BoolVar(&pbc, "pbc", false, "use WPS Push-Button-Configuration instead of a PIN")
	cmd.Flags().BoolVarP(&save, "save", "s", true, "append recovered credentials to the reports directory")
	cmd.Flags().StringVar(&pixiewpsBin, "pixiewps-bin", "pixiewps", "path to the pixiewps binary")
	cmd.Flags().BoolVar(&force, "pixie-force", false, "pass --force to pixiewps")
	cmd.Flags().BoolVar(&showCmd, "pixie-cmd", false, "print each pixiewps invocation before running it")
	return cmd
}

func newStore() (*store.Store, error) {
	return store.New(defaultFs(), homeDir, reportsDir)
}
