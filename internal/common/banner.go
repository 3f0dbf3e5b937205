package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner
func PrintBanner(config *Config, logger arbor.ILogger) {
	version := GetVersion()
	build := GetBuild()

	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("QUALION")
	b.PrintCenteredText("Document Inspection and Remediation Engine")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 15)
	b.PrintKeyValue("Build", build, 15)
	b.PrintKeyValue("Environment", config.Environment, 15)
	b.PrintKeyValue("LLM Provider", string(config.LLM.Provider), 15)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("environment", config.Environment).
		Str("llm_provider", string(config.LLM.Provider)).
		Msg("Application started")

	fmt.Printf("Configuration:\n")
	fmt.Printf("   - Environment: %s\n", config.Environment)
	fmt.Printf("   - LLM provider: %s (model %s)\n", config.LLM.Provider, config.LLM.Model)
	fmt.Printf("   - Default draw policy: %s\n", config.Cleaning.DrawPolicy)
	fmt.Printf("   - Default PDF mode: %s\n", config.Cleaning.PDFMode)

	logFilePath := ""
	if loggerWithPath, ok := interface{}(logger).(interface{ GetLogFilePath() string }); ok {
		logFilePath = loggerWithPath.GetLogFilePath()
		if logFilePath != "" {
			fmt.Printf("   - Log file: %s\n", logFilePath)
		}
	}
	fmt.Printf("\n")

	logger.Info().
		Str("log_file", logFilePath).
		Msg("Configuration loaded")
}

// PrintShutdownBanner displays the application shutdown banner
func PrintShutdownBanner(logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(42)

	b.PrintTopLine()
	b.PrintCenteredText("SHUTTING DOWN")
	b.PrintCenteredText("QUALION")
	b.PrintBottomLine()
	fmt.Println()

	logger.Info().Msg("Application shutting down")
}

// PrintColorizedMessage prints a message with specified color and logs through Arbor
func PrintColorizedMessage(color, message string, logger arbor.ILogger) {
	fmt.Printf("%s%s%s\n", color, message, banner.ColorReset)
}

// PrintSuccess prints a success message in green and logs it
func PrintSuccess(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorGreen, fmt.Sprintf("[ok] %s", message), logger)
	logger.Info().Str("type", "success").Msg(message)
}

// PrintError prints an error message in red and logs it
func PrintError(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorRed, fmt.Sprintf("[error] %s", message), logger)
	logger.Error().Str("type", "error").Msg(message)
}

// PrintWarning prints a warning message in yellow and logs it
func PrintWarning(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorYellow, fmt.Sprintf("[warn] %s", message), logger)
	logger.Warn().Str("type", "warning").Msg(message)
}

// PrintInfo prints an info message in cyan and logs it
func PrintInfo(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorCyan, fmt.Sprintf("[info] %s", message), logger)
	logger.Info().Str("type", "info").Msg(message)
}
