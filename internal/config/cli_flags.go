package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Write logs in JSON format")
	cmd.PersistentFlags().String("proxy", "", "HTTP/SOCKS5 proxies, comma separated (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "", "Timeout of a single HTTP request (e.g., 30s)")
	cmd.PersistentFlags().String("resolve-timeout", "", "Hard timeout of a single resolution (e.g., 2m)")
	cmd.PersistentFlags().String("socket-timeout", "", "Timeout of realtime server exchanges (e.g., 20s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().StringArrayP("header", "H", []string{}, "Extra request header (e.g., -H \"Accept-Language: fr\")")
	cmd.PersistentFlags().Float64("rate", 0, "Requests per second allowed per site")
	cmd.PersistentFlags().String("line-ending", "", "Line ending of the output: auto, lf or crlf")
}
