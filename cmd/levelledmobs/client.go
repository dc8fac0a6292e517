package main

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arcaneplugins/levelledmobs/internal/config"
	"github.com/arcaneplugins/levelledmobs/pkg/client"
)

type clientFlags struct {
	server string
	token  string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.PreRunE = cobrautil.SyncViperPreRunE(config.EnvPrefix)
	f.addFlags(cmd.Flags())
}

func (f *clientFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.server, "server", "http://localhost:8000", "address of the levelledmobs admin API")
	fs.StringVar(&f.token, "token", "", "bearer token when the admin API requires authentication")
}

func (f *clientFlags) client() (*client.Client, error) {
	var opts []client.Option
	if f.token != "" {
		opts = append(opts, client.WithToken(f.token))
	}
	return client.NewClient(f.server, opts...)
}
