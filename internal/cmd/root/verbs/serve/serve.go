package serve

import (
	"context"
	"fmt"
	"net"

	"github.com/kinfolk/kinctl/internal/cmd"
	"github.com/kinfolk/kinctl/internal/cmd/common"
	peoplecmd "github.com/kinfolk/kinctl/internal/cmd/root/products/people"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/kinfolk/kinctl/internal/web"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Serve
)

var (
	serveUse = Verb.String()

	serveShort = i18n.T("root.verbs.serve.serveShort", "Serve the people page over HTTP")

	serveLong = normalizers.LongDesc(i18n.T("root.verbs.serve.serveLong",
		`Start a web server rendering the people page. Every request fetches the
people endpoint again, resolves parents and applies the sort, selection and
filters encoded in the URL. The server stops on interrupt.`))

	serveExamples = normalizers.Examples(i18n.T("root.verbs.serve.serveExamples",
		fmt.Sprintf(`
		# Serve on the configured address
		%[1]s serve
		# Serve an offline copy on all interfaces
		%[1]s serve --addr :8080 --people-url ./people.yaml
		`, meta.CLIName)))
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     serveUse,
		Short:   serveShort,
		Long:    serveLong,
		Example: serveExamples,
		Args:    verbs.NoPositionalArgs,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), verbs.Verb, Verb))
		},
		PreRunE: bindFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmd.BuildHelper(c, args))
		},
	}

	c.Flags().String(common.ServeAddrFlagName, common.DefaultServeAddr,
		fmt.Sprintf(`Address to listen on.
- Config path: [ %s ]`, common.ServeAddrConfigPath))
	peoplecmd.AddSourceFlags(c.Flags())

	return c
}

func bindFlags(c *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if f := c.Flags().Lookup(common.ServeAddrFlagName); f != nil {
		if err := cfg.BindFlag(common.ServeAddrConfigPath, f); err != nil {
			return err
		}
	}
	return peoplecmd.BindSourceFlags(cfg, c.Flags())
}

func run(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	src, err := helper.GetPeopleSource(cfg, logger)
	if err != nil {
		return err
	}

	srv, err := web.New(src, logger)
	if err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "failed to start people server", err)
	}

	addr := cfg.GetString(common.ServeAddrConfigPath)
	if addr == "" {
		addr = common.DefaultServeAddr
	}

	ctx := helper.GetContext()
	if ctx == nil {
		ctx = context.Background()
	}
	out := helper.GetStreams().Out
	err = srv.Run(ctx, addr, func(a net.Addr) {
		fmt.Fprintf(out, "Serving people page on http://%s%s\n", a.String(), people.PathPrefix)
	})
	if err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "people server failed", err)
	}
	return nil
}
