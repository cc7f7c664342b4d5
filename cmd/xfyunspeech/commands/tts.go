package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/haivivi/xfyunspeech/pkg/cli"
	xf "github.com/haivivi/xfyunspeech/pkg/xfyunspeech"
)

var ttsCmd = &cobra.Command{
	Use:   "tts",
	Short: "Text-to-Speech synthesis service",
	Long: `Text-to-Speech (TTS) over the signed streaming WebSocket API.

The text is sent once and the MP3 chunks the service streams back are
appended to one output file in arrival order.

Example request file (request.yaml):
  text: 你好，这是一段测试语音。
  voice: x_xiaomei`,
}

var ttsSynthesizeCmd = &cobra.Command{
	Use:   "synthesize [text]",
	Short: "Synthesize text into an MP3 file",
	Long: `Synthesize speech and write it to an MP3 file.

Text comes from the argument or from the request file given with -f; the
argument wins. Without -o the file is written to the context audio directory
(default ~/.giztoy/xfyunspeech/data/audio) under a generated unique name.

Examples:
  xfyunspeech tts synthesize "你好" -o hello.mp3
  xfyunspeech tts synthesize -f request.yaml --voice aisjiuxu --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSynthesize,
}

var ttsURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print a freshly signed connection URL",
	Long: `Sign a connection URL with the current credentials and print it.

The signature embeds the current time, so the URL is only accepted for a
short while. Useful for checking credentials and clock skew.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}
		client, err := createClient(cliCtx, false)
		if err != nil {
			return err
		}
		signed, err := client.SignURL()
		if err != nil {
			return err
		}
		return outputResult(cmd.OutOrStdout(), cli.Success(map[string]string{
			"url":           signed.URL,
			"date":          signed.Date,
			"host":          signed.Host,
			"app_id":        client.AppID(),
			"default_voice": client.DefaultVoice(),
		}))
	},
}

// synthesizeOutput is the data of a success document.
type synthesizeOutput struct {
	AudioPath string `json:"audio_path" yaml:"audio_path"`
	AudioSize int64  `json:"audio_size" yaml:"audio_size"`
	Text      string `json:"text" yaml:"text"`
	Voice     string `json:"voice" yaml:"voice"`
	SID       string `json:"sid,omitempty" yaml:"sid,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
	Warning   string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fail := func(err error) error {
		if perr := outputResult(out, cli.Failure(err)); perr != nil {
			return errors.Join(err, perr)
		}
		return err
	}

	req, err := buildSynthesisRequest(cmd, args)
	if err != nil {
		return fail(err)
	}

	cliCtx, err := getContext()
	if err != nil {
		return fail(err)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	client, err := createClient(cliCtx, strict)
	if err != nil {
		return fail(err)
	}

	outputFlag, _ := cmd.Flags().GetString("output")
	outputPath, err := resolveOutputPath(cliCtx, outputFlag)
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := client.TTS.Synthesize(ctx, req, outputPath)
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		printSummary(cmd.ErrOrStderr(), res, err)
	}
	if !res.OK {
		if err == nil {
			err = fmt.Errorf("synthesis produced no audio")
		}
		return fail(err)
	}

	data := synthesizeOutput{
		AudioPath: res.OutputPath,
		AudioSize: res.AudioSize,
		Text:      req.Text,
		Voice:     res.Voice,
		SID:       res.SID,
		Completed: res.Completed,
	}
	if err != nil {
		data.Warning = err.Error()
	}
	return outputResult(out, cli.Success(data))
}

func buildSynthesisRequest(cmd *cobra.Command, args []string) (*xf.TTSRequest, error) {
	req := &xf.TTSRequest{}

	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		if file == "-" {
			if err := cli.LoadRequestFrom(cmd.InOrStdin(), req); err != nil {
				return nil, err
			}
		} else if err := cli.LoadRequest(file, req); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		req.Text = args[0]
	}
	if voice, _ := cmd.Flags().GetString("voice"); voice != "" {
		req.Voice = voice
	}

	if req.Text == "" {
		return nil, fmt.Errorf("text is required: pass it as an argument or in a request file (-f)")
	}
	return req, nil
}

func printSummary(w io.Writer, res *xf.TTSResult, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
	}
	panel := cli.Panel{
		Styles: cli.NewStyles(cli.DefaultTheme),
		Title:  "xfyunspeech tts",
		Status: status,
		Failed: err != nil,
		Rows: []cli.Row{
			{Label: "Voice", Value: res.Voice},
			{Label: "SID", Value: res.SID},
			{Label: "State", Value: res.State.String()},
			{Label: "Frames", Value: fmt.Sprintf("%d (%d with audio)", res.Frames, res.Chunks)},
			{Label: "Output", Value: res.OutputPath},
			{Label: "Size", Value: cli.FormatBytes(res.AudioSize)},
			{Label: "Duration", Value: cli.FormatDuration(res.Duration)},
		},
	}
	if n := len(res.ServiceErrors); n > 0 {
		panel.Rows = append(panel.Rows, cli.Row{
			Label: "Svc errors",
			Value: fmt.Sprintf("%d (last: %v)", n, res.ServiceErrors[n-1]),
		})
	}
	if err != nil {
		panel.Rows = append(panel.Rows, cli.Row{Label: "Error", Value: err.Error()})
	}
	fmt.Fprintln(w, panel.Render(72))
}

func init() {
	f := ttsSynthesizeCmd.Flags()
	f.StringP("file", "f", "", "request file (YAML or JSON, '-' for stdin)")
	f.StringP("output", "o", "", "output MP3 path (default: unique file in the audio directory)")
	f.String("voice", "", "voice (vcn), overrides the request file and context default")
	f.Bool("strict", false, "abort on the first service error frame")
	f.Bool("summary", false, "print a styled session summary to stderr")

	ttsCmd.AddCommand(ttsSynthesizeCmd)
	ttsCmd.AddCommand(ttsURLCmd)
}
