package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stash/backend"
	"stash/config"
	"stash/logging"
	"stash/session"
	"stash/sim"
	"stash/ui"
)

func newRunCmd() *cobra.Command {
	var (
		world    worldFlags
		backends []string
		noWatch  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the terminal demo host with the folder panel",
		Long: `Start the terminal demo host.

The demo plays the game client: an inventory screen, simulated JEI, EMI and
REI ingredient lists, and the folder panel on the left. --backend selects
which viewers are installed; the configured order decides which one owns a
drag when several could.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			installed := cfg.Backends
			if len(backends) > 0 {
				if installed, err = config.ParseBackendOrder(backends); err != nil {
					return err
				}
			}
			keys, err := config.LoadKeybindings(cfg.DataDir())
			if err != nil {
				return err
			}
			if ok, warning := keys.Validate(); !ok {
				return fmt.Errorf("invalid keybindings: %s", warning)
			} else if warning != "" {
				logging.NewLogger("cmd").Warn(warning)
			}

			h := sim.NewHost(80, 24)
			h.World = world.info()
			viewers := sim.Install(h, installed...)

			changes := make(chan struct{}, 1)
			sess, err := session.Join(session.Options{
				ConfigRoot:    cfg.ConfigRoot(),
				World:         h.World,
				Driver:        cfg.Storage.Driver,
				WriteAttempts: cfg.Storage.WriteAttempts,
				CacheSize:     cfg.CacheSize,
				Register:      viewers.RegisterOrder(cfg.Backends),
				Watch:         cfg.Storage.Watch && !noWatch,
				WatchDebounce: cfg.WatchDebounce(),
				OnExternalChange: func() {
					select {
					case changes <- struct{}{}:
					default:
					}
				},
			})
			if err != nil {
				return err
			}
			defer sess.Leave()

			viewers.Start()
			sess.Start()

			metrics := cfg.Metrics
			if !cfg.CustomMetrics {
				metrics = ui.CellMetrics()
			}
			return ui.Run(ui.Options{
				Host:      h,
				Viewers:   viewers,
				Session:   sess,
				Metrics:   metrics,
				Placement: cfg.Placement,
				Keys:      keys,
				Changes:   changes,
			})
		},
	}
	world.register(cmd)
	cmd.Flags().StringSliceVar(&backends, "backend", nil, fmt.Sprintf("Installed recipe viewers (%s, %s, %s)", backend.JEI, backend.EMI, backend.REI))
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload folders edited outside the demo")
	return cmd
}
