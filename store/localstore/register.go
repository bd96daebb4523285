package localstore

import (
	"flag"
	"fmt"

	"convex.dev/convex/store"
	"convex.dev/convex/store/storeregistry"
)

var flagDir string

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "localstore",
		Description: "Local filesystem store (directory)",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagDir, "localstore-dir", "", "localstore directory (for --backend=localstore)")
		},
		Open: func() (store.Store, func() error, error) {
			if flagDir == "" {
				return nil, nil, fmt.Errorf("missing --localstore-dir")
			}
			s, err := New(flagDir)
			return s, nil, err
		},
	})
}
