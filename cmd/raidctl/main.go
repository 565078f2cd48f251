// Shoal is a Redfish aggregator service.
// Copyright (C) 2025  Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command raidctl is the CLI wrapper around the raidctl library: it plans
// and applies RAID volumes against one Redfish BMC, tears them all down, or
// inspects the attached storage controllers. It holds no business logic of
// its own, only flag parsing and wiring into the library.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"raidctl"
	"raidctl/internal/logging"
	"raidctl/internal/secret"
	"raidctl/internal/store"
)

// EnvPassword is the environment variable cmd/raidctl falls back to for the
// BMC password when -password is omitted.
const EnvPassword = "RAIDCTL_PASSWORD"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "list-storage":
		err = runListStorage(args)
	case "apply":
		err = runApply(args)
	case "delete-all":
		err = runDeleteAll(args)
	case "controller":
		err = runController(args)
	case "profile":
		err = runProfile(args)
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "raidctl: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "raidctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: raidctl <command> [flags]

commands:
  list-storage                 enumerate storage controllers, drives, and volumes
  apply -specs <file.json>     create logical disks described in a JSON array
  delete-all                   tear down every RAID volume on every OOB controller
  controller -action <restore|summary> [-hint <id>]
  profile <save|list|rm>       manage saved connection profiles

connection flags (list-storage, apply, delete-all, controller):
  -profile <name>    load connection coordinates from a saved profile
  -address <url>      BMC Redfish endpoint, e.g. https://10.0.0.5
  -username <user>
  -password <pass>    falls back to RAIDCTL_PASSWORD env var
  -vendor <name>
  -insecure-tls
  -timeout <duration>  default 30s
  -log-level <level>   debug|info|warn|error, default info`)
}

// connFlags bundles the connection flags shared by every BMC-touching
// subcommand.
type connFlags struct {
	profile     string
	address     string
	username    string
	password    string
	vendor      string
	insecureTLS bool
	timeout     time.Duration
	logLevel    string
	storePath   string
	vaultKey    string
}

func bindConnFlags(fs *flag.FlagSet) *connFlags {
	c := &connFlags{}
	fs.StringVar(&c.profile, "profile", "", "load connection coordinates from a saved profile")
	fs.StringVar(&c.address, "address", "", "BMC Redfish endpoint, e.g. https://10.0.0.5")
	fs.StringVar(&c.username, "username", "", "BMC username")
	fs.StringVar(&c.password, "password", "", "BMC password (falls back to "+EnvPassword+")")
	fs.StringVar(&c.vendor, "vendor", "", "vendor label for retry/backoff tuning and metrics")
	fs.BoolVar(&c.insecureTLS, "insecure-tls", false, "skip TLS certificate verification")
	fs.DurationVar(&c.timeout, "timeout", 30*time.Second, "per-request timeout")
	fs.StringVar(&c.logLevel, "log-level", "info", "debug|info|warn|error")
	fs.StringVar(&c.storePath, "store", defaultStorePath(), "path to the local profile/audit sqlite database")
	fs.StringVar(&c.vaultKey, "vault-key", "", "passphrase protecting saved profile passwords (falls back to "+secret.EnvVaultKey+")")
	return c
}

func defaultStorePath() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir + "/.raidctl.db"
	}
	return "raidctl.db"
}

func (c *connFlags) resolvePassword() {
	if c.password == "" {
		c.password = os.Getenv(EnvPassword)
	}
}

func (c *connFlags) resolveVaultKey() {
	if c.vaultKey == "" {
		c.vaultKey = os.Getenv(secret.EnvVaultKey)
	}
}

// openVault returns a vault for the resolved passphrase, or nil if none was
// supplied (profiles then store/read passwords in plaintext).
func (c *connFlags) openVault() (*secret.Vault, error) {
	c.resolveVaultKey()
	if c.vaultKey == "" {
		return nil, nil
	}
	return secret.NewVault(c.vaultKey)
}

// connect resolves c.profile (if set) against the local store, overlays any
// explicit flags on top, and opens a session.
func (c *connFlags) connect(ctx context.Context) (*raidctl.Client, error) {
	c.resolvePassword()

	if c.profile != "" {
		vault, err := c.openVault()
		if err != nil {
			return nil, err
		}
		st, err := store.Open(ctx, c.storePath, vault)
		if err != nil {
			return nil, err
		}
		defer func() { _ = st.Close() }()

		p, err := st.GetProfile(ctx, c.profile)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("no such profile %q", c.profile)
		}
		if c.address == "" {
			c.address = p.Endpoint
		}
		if c.username == "" {
			c.username = p.Username
		}
		if c.password == "" {
			c.password = p.Password
		}
		if c.vendor == "" {
			c.vendor = p.Vendor
		}
		if !c.insecureTLS {
			c.insecureTLS = p.InsecureTLS
		}
	}

	if c.address == "" || c.username == "" {
		return nil, fmt.Errorf("-address and -username are required (or -profile naming a saved profile)")
	}

	logger := logging.New(c.logLevel)
	return raidctl.Connect(ctx, raidctl.Config{
		Endpoint:    c.address,
		Username:    c.username,
		Password:    c.password,
		Vendor:      c.vendor,
		InsecureTLS: c.insecureTLS,
		Timeout:     c.timeout,
		Logger:      logger,
	})
}

func runListStorage(args []string) error {
	fs := flag.NewFlagSet("list-storage", flag.ExitOnError)
	conn := bindConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := conn.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	storages, err := client.ListStorage(ctx)
	if err != nil {
		return err
	}
	for _, s := range storages {
		summary, err := client.Summarize(ctx, s)
		if err != nil {
			fmt.Printf("%s: <drives unavailable: %v>\n", s.Name(), err)
			continue
		}
		fmt.Println(summary)
		for _, c := range s.Controllers() {
			fmt.Printf("  controller %s (%s): raid levels %v, oob=%v, jbod=%v\n",
				c.MemberID(), c.Model(), c.SupportedRAIDLevels(), c.SupportsOutOfBand(), c.IsJBODMode())
		}
	}
	return nil
}

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	conn := bindConnFlags(fs)
	specsPath := fs.String("specs", "", "path to a JSON array of logical-disk specs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *specsPath == "" {
		return fmt.Errorf("-specs is required")
	}

	raw, err := os.ReadFile(*specsPath)
	if err != nil {
		return fmt.Errorf("read specs file: %w", err)
	}
	var specs []raidctl.LogicalDiskSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return fmt.Errorf("parse specs file: %w", err)
	}

	ctx := context.Background()
	client, err := conn.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	start := time.Now()
	applyErr := client.ApplyRAIDConfiguration(ctx, specs)
	recordAudit(ctx, conn, "apply", fmt.Sprintf("%d logical disks requested", len(specs)), time.Since(start), applyErr)
	return applyErr
}

func runDeleteAll(args []string) error {
	fs := flag.NewFlagSet("delete-all", flag.ExitOnError)
	conn := bindConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := conn.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	start := time.Now()
	delErr := client.DeleteAllRAIDConfiguration(ctx)
	recordAudit(ctx, conn, "delete_all", "", time.Since(start), delErr)
	return delErr
}

func runController(args []string) error {
	fs := flag.NewFlagSet("controller", flag.ExitOnError)
	conn := bindConnFlags(fs)
	hint := fs.String("hint", "", "controller id or name (required when more than one controller is attached)")
	action := fs.String("action", "summary", "restore|summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := conn.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	ctrl, err := client.FindController(ctx, *hint)
	if err != nil {
		return err
	}

	switch *action {
	case "restore":
		return ctrl.Restore(ctx)
	case "summary":
		summary, err := ctrl.Summary(ctx)
		if err != nil {
			return err
		}
		fmt.Println(summary)
		return nil
	default:
		return fmt.Errorf("unknown -action %q (want restore|summary)", *action)
	}
}

// recordAudit writes an audit log entry for an apply/delete-all invocation,
// best-effort: a failure to write the audit record never masks or replaces
// the operation's own outcome, which the caller already has in hand.
func recordAudit(ctx context.Context, conn *connFlags, action, summary string, d time.Duration, opErr error) {
	vault, err := conn.openVault()
	if err != nil {
		return
	}
	st, err := store.Open(ctx, conn.storePath, vault)
	if err != nil {
		return
	}
	defer func() { _ = st.Close() }()

	outcome := "success"
	errText := ""
	if opErr != nil {
		outcome = "failure"
		errText = opErr.Error()
	}
	_ = st.RecordAudit(ctx, &store.AuditRecord{
		ProfileName: conn.profile,
		Action:      action,
		Summary:     summary,
		Outcome:     outcome,
		Error:       errText,
		Duration:    d,
	})
}

func runProfile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: raidctl profile <save|list|rm> [flags]")
	}
	sub := args[0]
	rest := args[1:]

	switch sub {
	case "save":
		fs := flag.NewFlagSet("profile save", flag.ExitOnError)
		conn := bindConnFlags(fs)
		name := fs.String("name", "", "profile name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" || conn.address == "" || conn.username == "" {
			return fmt.Errorf("-name, -address, and -username are required")
		}
		conn.resolvePassword()
		vault, err := conn.openVault()
		if err != nil {
			return err
		}
		ctx := context.Background()
		st, err := store.Open(ctx, conn.storePath, vault)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		return st.SaveProfile(ctx, &store.Profile{
			Name:        *name,
			Endpoint:    conn.address,
			Username:    conn.username,
			Password:    conn.password,
			Vendor:      conn.vendor,
			InsecureTLS: conn.insecureTLS,
		})

	case "list":
		fs := flag.NewFlagSet("profile list", flag.ExitOnError)
		storePath := fs.String("store", defaultStorePath(), "path to the local profile/audit sqlite database")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		ctx := context.Background()
		st, err := store.Open(ctx, *storePath, nil)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		profiles, err := st.ListProfiles(ctx)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			fmt.Printf("%s\t%s\t%s\n", p.Name, p.Endpoint, p.Username)
		}
		return nil

	case "rm":
		fs := flag.NewFlagSet("profile rm", flag.ExitOnError)
		storePath := fs.String("store", defaultStorePath(), "path to the local profile/audit sqlite database")
		name := fs.String("name", "", "profile name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("-name is required")
		}
		ctx := context.Background()
		st, err := store.Open(ctx, *storePath, nil)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		return st.DeleteProfile(ctx, *name)

	default:
		return fmt.Errorf("unknown profile subcommand %q", sub)
	}
}
