package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/hwy-mandel/hwy"
	"github.com/ajroetker/hwy-mandel/internal/imageio"
	"github.com/ajroetker/hwy-mandel/mandel"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the detected vector width and defaults",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			title := cases.Title(language.English)

			fmt.Fprintf(out, "Platform:      %s/%s, %d CPUs, GOMAXPROCS %d\n",
				runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), runtime.GOMAXPROCS(0))
			fmt.Fprintf(out, "Dispatch:      %s (%d-byte vectors)\n",
				title.String(hwy.CurrentName()), hwy.CurrentWidth())
			if hwy.NoSimdEnv() {
				fmt.Fprintln(out, "               forced scalar by HWY_NO_SIMD")
			}
			fmt.Fprintf(out, "Lanes:         %d float64 (default %d)\n", hwy.MaxLanes[float64](), mandel.DefaultLanes)
			formats := lo.Map(imageio.Formats(), func(f string, _ int) string { return strings.ToUpper(f) })
			fmt.Fprintf(out, "Image formats: %s\n", strings.Join(formats, ", "))
		},
	}
}
