// Command domainguard is the CLI surface for spec.md §6: a thin wrapper
// around analyze_domain/get_live_mx_domains, grounded on the cobra-driven
// root command pattern from the other_examples nitr0g3n CLI (flag
// binding, signal-aware context, stdout/stderr routed through cmd's
// writers) and the teacher's output formatting (CSV/JSON export in
// handler.Index).
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/permute"
	"github.com/domainguard/domainguard/internal/scanner"
)

var (
	flagConcurrency  int
	flagTimeoutMS    int
	flagWhois        bool
	flagContent      bool
	flagMxOnly       bool
	flagFormat       string
	flagOutput       string
	flagRdapURL      string
	flagResolver     string
	flagWhoisServers string
)

var rootCmd = &cobra.Command{
	Use:   "domainguard <target-domain>",
	Short: "domainguard scans permutations of a domain for squatting/phishing infrastructure.",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", 0, "maximum concurrent probes (default 2x NumCPU)")
	rootCmd.Flags().IntVarP(&flagTimeoutMS, "timeout", "t", 0, "per-candidate timeout in milliseconds (default 15000)")
	rootCmd.Flags().BoolVarP(&flagWhois, "whois", "w", false, "perform WHOIS/RDAP lookups")
	rootCmd.Flags().BoolVar(&flagContent, "content", false, "compute content similarity against the target")
	rootCmd.Flags().BoolVar(&flagMxOnly, "mx-only", false, "only report candidates with live MX records")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "table", "output format: table|json|csv")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write output to PATH instead of stdout")
	rootCmd.Flags().StringVar(&flagRdapURL, "rdap-bootstrap-url", "https://data.iana.org/rdap/dns.json", "RDAP bootstrap registry URL")
	rootCmd.Flags().StringVar(&flagResolver, "resolver", "8.8.8.8:53", "DNS resolver address")
	rootCmd.Flags().StringVar(&flagWhoisServers, "whois-servers-path", os.Getenv("DOMAINGUARD_WHOIS_SERVERS_PATH"), "path to a JSON file overriding the built-in WHOIS server table")
}

func run(cmd *cobra.Command, args []string) error {
	target := args[0]

	obs.InitLogger()
	defer obs.Log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := scanner.Options{
		Whois:       flagWhois,
		ContentHash: flagContent,
		MxOnly:      flagMxOnly,
		Ordered:     true,
	}
	if flagConcurrency > 0 {
		opts.MaxConcurrency = flagConcurrency
	}
	if flagTimeoutMS > 0 {
		opts.TimeoutPerCandidate = time.Duration(flagTimeoutMS) * time.Millisecond
	}
	opts = opts.WithDefaults()

	coord := scanner.NewCoordinator(flagResolver, flagRdapURL, flagWhoisServers, permute.NewDefaultSource())

	var results []model.ScanResult
	if flagMxOnly {
		results = coord.GetLiveMXDomains(ctx, target, opts)
	} else {
		results = coord.AnalyzeDomain(ctx, target, opts)
	}

	out := cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch flagFormat {
	case "json":
		return writeJSON(out, results)
	case "csv":
		return writeCSV(out, results)
	case "table", "":
		return writeTable(out, results)
	default:
		return fmt.Errorf("unknown format %q: want table|json|csv", flagFormat)
	}
}

func writeJSON(w io.Writer, results []model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results []model.ScanResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"kind", "fqdn", "tld", "resolvable", "public_ips", "mx_count", "wildcard"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{
			r.Kind,
			r.FQDN,
			r.TLD,
			strconv.FormatBool(r.Resolvable),
			fmt.Sprint(r.PublicIPs),
			strconv.Itoa(len(r.MXRecords)),
			strconv.FormatBool(r.Wildcard),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, results []model.ScanResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tFQDN\tTLD\tRESOLVABLE\tPUBLIC IPS\tMX\tWILDCARD")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%v\t%d\t%t\n",
			r.Kind, r.FQDN, r.TLD, r.Resolvable, r.PublicIPs, len(r.MXRecords), r.Wildcard)
	}
	return tw.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
