package banner

import (
	"fmt"

	"kiarachat/pkg/config"
)

const banner = `
██╗  ██╗██╗ █████╗ ██████╗  █████╗      ██████╗██╗  ██╗ █████╗ ████████╗
██║ ██╔╝██║██╔══██╗██╔══██╗██╔══██╗    ██╔════╝██║  ██║██╔══██╗╚══██╔══╝
█████╔╝ ██║███████║██████╔╝███████║    ██║     ███████║███████║   ██║
██╔═██╗ ██║██╔══██║██╔══██╗██╔══██║    ██║     ██╔══██║██╔══██║   ██║
██║  ██╗██║██║  ██║██║  ██║██║  ██║    ╚██████╗██║  ██║██║  ██║   ██║
╚═╝  ╚═╝╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝     ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// PrintWithEff prints the startup banner using the effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", eff.Addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if eff.Source != "" {
		fmt.Printf("Config source: %s\n", eff.Source)
	}
	if eff.Config != nil {
		fmt.Printf("Model:    %s\n", modelOrDefault(eff.Config.OpenAI.Model))
		fmt.Printf("History:  last %s, up to %d turns\n",
			eff.Config.Chat.HistoryWindow.Duration(), eff.Config.Chat.HistoryLimit)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /api/chat         - Send a message (JSON: {message})")
	fmt.Println("GET  /api/chat/history - Recent conversation as display messages")
	fmt.Println("GET  /api/health       - Store reachability diagnostics")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/api/chat' -d '{\"message\": \"Hi\"}'\n", eff.Addr)
	fmt.Printf("curl 'http://localhost%s/api/chat/history'\n", eff.Addr)
}

func modelOrDefault(m string) string {
	if m == "" {
		return "gpt-3.5-turbo"
	}
	return m
}
