// Package main provides the iFLYTEK streaming TTS CLI tool.
//
// Usage:
//
//	xfyunspeech [flags] <service> <command> [args]
//
// Services:
//
//	tts    - Text-to-Speech synthesis over the signed WebSocket API
//	config - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.giztoy/xfyunspeech/
//	Use 'xfyunspeech config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/xfyunspeech/cmd/xfyunspeech/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
