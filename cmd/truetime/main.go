// Package main implements the truetime CLI, a deterministic temporal
// point calculator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/truetime/pkg/clock"
	"github.com/codeGROOVE-dev/truetime/pkg/truetime"
	"github.com/codeGROOVE-dev/truetime/pkg/tzresolve"
)

var (
	listZones   = flag.Bool("list-timezones", false, "List available IANA timezones and exit")
	inDuration  = flag.String("in", "", "Relative duration from now (e.g. 1month2w, -45m, 1.5year)")
	atTime      = flag.String("at", "", "Absolute target date-time (e.g. 2026-03-08T14:00:00 or with offset)")
	targetTZ    = flag.String("target-tz", "", "Timezone for an offset-less -at value")
	serverTZ    = flag.String("server-tz", "", "Server display timezone (or set TRUETIME_SERVER_TZ; default: host zone)")
	userTZ      = flag.String("user-tz", "", "Additional display timezone")
	calendarTZ  = flag.String("calendar-tz", "", "Timezone whose wall clock calendar-unit shifts use (default: server zone)")
	lunarTZ     = flag.String("lunar-tz", "", "Reference timezone for the lunar calendar (or set TRUETIME_LUNAR_TZ)")
	noLunar     = flag.Bool("no-lunar", false, "Disable the lunar calendar renderings")
	nowOverride = flag.String("now", "", "Override the current time (UTC when no offset is given)")
	timeSource  = flag.String("time-source", "system", "Where 'now' comes from: system or ntp")
	ntpServers  = flag.String("ntp-servers", "", "Comma-separated NTP servers in priority order (or set TRUETIME_NTP_SERVERS)")
	ntpTimeout  = flag.Duration("ntp-timeout", 5*time.Second, "Per-attempt NTP timeout")
	ntpAttempts = flag.Uint("ntp-attempts", 1, "Attempts per NTP server before moving to the next")
	jsonOutput  = flag.Bool("json", false, "Output the result as JSON")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Show version")
)

// defaultNTPServers is used when -ntp-servers and the environment are
// both empty.
var defaultNTPServers = []string{"pool.ntp.org", "time.google.com", "time.cloudflare.com"}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("truetime v1.0.0")
		return
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	// Environment fallbacks for flags
	if *serverTZ == "" {
		*serverTZ = os.Getenv("TRUETIME_SERVER_TZ")
	}
	if *lunarTZ == "" {
		*lunarTZ = os.Getenv("TRUETIME_LUNAR_TZ")
	}
	if *ntpServers == "" {
		*ntpServers = os.Getenv("TRUETIME_NTP_SERVERS")
	}

	modes := 0
	if *listZones {
		modes++
	}
	if *inDuration != "" {
		modes++
	}
	if *atTime != "" {
		modes++
	}
	if modes != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] -list-timezones | -in <duration> | -at <date-time>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *listZones {
		zones, err := tzresolve.ListZones()
		if err != nil {
			fatal(err)
		}
		for _, zone := range zones {
			fmt.Println(zone)
		}
		return
	}

	source, err := buildTimeSource(logger)
	if err != nil {
		fatal(err)
	}

	opts := []truetime.Option{
		truetime.WithTimeSource(source),
		truetime.WithServerZone(*serverTZ),
		truetime.WithUserZone(*userTZ),
		truetime.WithCalendarZone(*calendarTZ),
		truetime.WithLunarZone(*lunarTZ),
	}
	if *noLunar {
		opts = append(opts, truetime.WithoutLunar())
	}

	calculator, err := truetime.NewWithLogger(logger, opts...)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var result *truetime.Result
	if *inDuration != "" {
		result, err = calculator.Relative(ctx, *inDuration)
	} else {
		result, err = calculator.Absolute(ctx, *atTime, *targetTZ)
	}
	if err != nil {
		fatal(err)
	}

	if *jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			fatal(err)
		}
		return
	}

	printResult(result)
}

func buildTimeSource(logger *slog.Logger) (clock.Source, error) {
	if *nowOverride != "" {
		if *timeSource == "ntp" {
			return nil, fmt.Errorf("-now and -time-source=ntp are mutually exclusive")
		}
		return clock.OverrideSource{Value: *nowOverride}, nil
	}

	switch *timeSource {
	case "system":
		return clock.SystemSource{}, nil
	case "ntp":
		servers := defaultNTPServers
		if *ntpServers != "" {
			servers = nil
			for _, s := range strings.Split(*ntpServers, ",") {
				if s = strings.TrimSpace(s); s != "" {
					servers = append(servers, s)
				}
			}
		}
		return clock.NewNetworkSource(servers, *ntpTimeout, *ntpAttempts, logger), nil
	default:
		return nil, fmt.Errorf("unknown time source %q (want system or ntp)", *timeSource)
	}
}

func printResult(result *truetime.Result) {
	label := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n🕰  truetime — %s %q\n", result.Mode, result.Input)
	fmt.Println(strings.Repeat("─", 50))

	sourceStr := string(result.TimeSource.Source)
	if result.TimeSource.ServerUsed != "" {
		sourceStr += " (" + result.TimeSource.ServerUsed + ")"
	}
	fmt.Printf("%s %s\n", label("⏱  Source:      "), sourceStr)
	fmt.Printf("%s %s\n", label("🕐 Now (UTC):   "), result.NowUTC.Formatted)
	fmt.Printf("%s %s\n", label("🎯 Target (UTC):"), result.TargetUTC.Formatted)

	fmt.Printf("%s %s  %s %s\n", label("🗺  Server zone: "), result.NowServer.Formatted,
		dim("→"), result.TargetServer.Formatted)
	fmt.Printf("                 %s\n", dim(result.NowServer.Zone))

	if result.NowUser != nil && result.TargetUser != nil {
		fmt.Printf("%s %s  %s %s\n", label("👤 User zone:   "), result.NowUser.Formatted,
			dim("→"), result.TargetUser.Formatted)
		fmt.Printf("                 %s\n", dim(result.NowUser.Zone))
	}

	if result.NowLunar != "" {
		fmt.Printf("%s %s  %s %s\n", label("🌙 Lunar:       "), result.NowLunar,
			dim("→"), result.TargetLunar)
	}

	deltaColor := color.New(color.FgGreen)
	if result.DeltaMs < 0 {
		deltaColor = color.New(color.FgRed)
	}
	fmt.Printf("%s %s\n", label("Δ  Delta:       "),
		deltaColor.Sprintf("%+d ms (%+g s)", result.DeltaMs, result.DeltaSeconds))

	if result.Duration != nil {
		fmt.Printf("%s fixed %d ms, months %g, years %g (total months %g)\n",
			label("🧮 Breakdown:   "),
			result.Duration.FixedMs, result.Duration.CalendarMonths,
			result.Duration.CalendarYears, result.Duration.TotalMonths())
		for _, tok := range result.Duration.Tokens {
			fmt.Printf("                 %s %s\n", dim("•"),
				fmt.Sprintf("%s: %g %s (%s, %g)", tok.Text, tok.Magnitude, tok.Unit, tok.Kind, tok.Contribution))
		}
	}
	fmt.Println()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ", err.Error()))
	os.Exit(1)
}
