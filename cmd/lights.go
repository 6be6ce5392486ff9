package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/smazurov/backlightd/internal/lights"
	"github.com/smazurov/backlightd/internal/logging"
	"github.com/smazurov/backlightd/internal/nats"
	"github.com/spf13/cobra"
)

const requestTimeout = 3 * time.Second

type lightsFlags struct {
	policy    string
	root      string
	fixedPath string
	natsURL   string
	verbose   bool
}

func (f *lightsFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.policy, "policy", lights.PolicyScan, "Discovery policy (scan, fixed)")
	pf.StringVar(&f.root, "root", lights.DefaultBacklightRoot, "Backlight class directory scanned by the scan policy")
	pf.StringVar(&f.fixedPath, "fixed-path", lights.DefaultFixedPath, "Device directory used by the fixed policy")
	pf.StringVar(&f.natsURL, "nats", "", "Control a running daemon over NATS instead of sysfs")
	pf.BoolVar(&f.verbose, "verbose", false, "Enable debug logging")
}

// registry discovers lights directly on this host.
func (f *lightsFlags) registry() (*lights.Registry, error) {
	level := "warn"
	if f.verbose {
		level = "debug"
	}
	logging.Initialize(logging.Config{Level: level, Format: "text"})
	logger := logging.GetLogger("lights")

	discoverer, err := lights.NewDiscoverer(lights.DiscoveryConfig{
		Policy:    f.policy,
		Root:      f.root,
		FixedPath: f.fixedPath,
	}, logger)
	if err != nil {
		return nil, err
	}
	return lights.NewRegistry(discoverer, lights.WithLogger(logger)), nil
}

// CreateLightsCmd creates the lights command.
func CreateLightsCmd() *cobra.Command {
	flags := &lightsFlags{}

	cmd := &cobra.Command{
		Use:   "lights",
		Short: "Inspect and control lights",
		Long: `Discovers backlights in sysfs and lists or sets them without starting the daemon. ` +
			`With --nats the commands talk to a running daemon instead.`,
	}
	flags.register(cmd)

	cmd.AddCommand(createListCmd(flags), createSetCmd(flags))
	return cmd
}

func createListCmd(flags *lightsFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered lights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.natsURL != "" {
				return listRemote(cmd.Context(), cmd.OutOrStdout(), flags.natsURL, asJSON)
			}

			registry, err := flags.registry()
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), registry.Info(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func createSetCmd(flags *lightsFlags) *cobra.Command {
	var lowPersistence bool
	var mode string

	cmd := &cobra.Command{
		Use:   "set <id> <color>",
		Short: "Set a light from a packed RGB color",
		Long: `Reduces the color (0xRRGGBB, #RRGGBB or decimal) to a luma value, scales it ` +
			`into the device range and writes it. Any failure is reported as an unsupported operation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid light id %q: %w", args[0], err)
			}
			if lowPersistence {
				mode = lights.ModeLowPersistence.String()
			}

			msg := nats.SetMessage{Color: args[1], BrightnessMode: mode}
			state, err := msg.State()
			if err != nil {
				return err
			}

			if flags.natsURL != "" {
				return setRemote(cmd.Context(), flags.natsURL, id, msg)
			}

			registry, err := flags.registry()
			if err != nil {
				return err
			}
			if err := registry.SetState(id, state); err != nil {
				if flags.verbose {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
				return lights.ErrUnsupportedOperation
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&lowPersistence, "low-persistence", false, "Request low persistence mode")
	cmd.Flags().StringVar(&mode, "mode", "", "Brightness mode (user, sensor, low_persistence)")
	return cmd
}

func printInfo(w io.Writer, infos []lights.Info, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tORDINAL\tMAX\tPATH")
	for _, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", info.ID, info.Type, info.Ordinal, info.MaxBrightness, info.Path)
	}
	return tw.Flush()
}

func dialRemote(url string) (*nats.Client, error) {
	logging.Initialize(logging.Config{Level: "warn", Format: "text"})
	return nats.Dial(url, logging.GetLogger("nats"))
}

func listRemote(ctx context.Context, w io.Writer, url string, asJSON bool) error {
	client, err := dialRemote(url)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(contextOrBackground(ctx), requestTimeout)
	defer cancel()

	found, err := client.List(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tORDINAL")
	for _, l := range found {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", l.ID, l.Type, l.Ordinal)
	}
	return tw.Flush()
}

func setRemote(ctx context.Context, url string, id int, msg nats.SetMessage) error {
	client, err := dialRemote(url)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(contextOrBackground(ctx), requestTimeout)
	defer cancel()

	err = client.SetState(ctx, id, msg)
	if errors.Is(err, nats.ErrRejected) {
		return lights.ErrUnsupportedOperation
	}
	return err
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
