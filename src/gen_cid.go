package callerid

/*------------------------------------------------------------------
 *
 * Purpose:     Generate caller ID audio for testing the receiver,
 *		or play it to a telephone.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/pflag"
)

var datePattern = regexp.MustCompile(`^[0-9]{8}$`)

// Silence between messages when more than one is generated.
const GEN_GAP_MSEC = 500

func CidGenMain() {
	var configFile = pflag.StringP("config", "c", "", "Configuration file.  Default is to look for "+CONFIG_FILE_NAME+".")
	var number = pflag.StringP("number", "n", "5551234", `Calling number.  Empty, "P" or "O" for none.`)
	var name = pflag.StringP("name", "N", "", `Calling name.  Empty, "P" or "O" for none.`)
	var date = pflag.StringP("date", "d", "", "MMDDHHMM.  Default is the current time.")
	var sdmf = pflag.BoolP("sdmf", "s", false, "Single data message format, number only.")
	var callWaiting = pflag.BoolP("call-waiting", "w", false, "Off hook delivery: no channel seizure, shorter mark.")
	var standardName = pflag.StringP("standard", "S", "", "Modem: v23-forward-1, v23-forward-2, v23-backward, bell202.")
	var audioSampleRate = pflag.IntP("audio-sample-rate", "r", 0, "Audio sample rate.")
	var level = pflag.Float64P("level", "a", 0, "Output level in dBm0.  Default from configuration, normally -14.")
	var count = pflag.IntP("count", "m", 1, "Number of messages.")
	var eightBitsPerSample = pflag.BoolP("eight-bps", "8", false, "8 bit audio rather than 16.")
	var outputFile = pflag.StringP("output-file", "o", "", "Send output to .wav file.")
	var play = pflag.BoolP("play", "p", false, "Play on the sound card.")
	var gpioChip = pflag.String("gpio-chip", "gpiochip0", "GPIO chip for the line relay.")
	var gpioLine = pflag.Int("gpio-line", -1, "GPIO line to turn on while sending.  -1 for none.")
	var gpioInvert = pflag.Bool("gpio-invert", false, "Line relay is active low.")
	var hexDisplay = pflag.BoolP("hex-display", "x", false, "Print message bytes and bits.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Generate caller ID audio.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Example:  %s -n 5551234 -N \"JOHN SMITH\" -o x.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "    MDMF message with number and name, Bell 202 tones.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Example:  %s -s -n P -d 01011200 -o x.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "    SDMF message for a private number.\n")
	}

	// !!! PARSE !!!
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	var cfg, cfgErr = LoadConfig(*configFile)
	if cfgErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", cfgErr)
		os.Exit(1)
	}

	if err := cfg.ApplyLog(); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	if *standardName != "" {
		cfg.Modem.Standard = *standardName
	}

	if *audioSampleRate != 0 {
		cfg.Modem.SampleRate = *audioSampleRate
	}

	if pflag.CommandLine.Changed("level") {
		cfg.Transmit.LevelDB = *level
	}

	var mcfg, mErr = cfg.ModulatorConfig()
	if mErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", mErr)
		os.Exit(1)
	}

	if *callWaiting {
		var cw = CallWaitingModulatorConfig()
		mcfg.SeizeBits = cw.SeizeBits
		mcfg.CarrierStartBits = cw.CarrierStartBits
	}

	if *outputFile == "" && !*play {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Specify an output file (-o) or play on the sound card (-p).\n")
		pflag.Usage()
		os.Exit(1)
	}

	if *count < 1 {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Number of messages must be at least 1, not %d.\n", *count)
		os.Exit(1)
	}

	if *date == "" {
		*date = FormatDate(time.Now())
	} else if !datePattern.MatchString(*date) {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Date must be 8 digits, MMDDHHMM, not \"%s\".\n", *date)
		os.Exit(1)
	}

	var msg *Message
	var buildErr error

	if *sdmf {
		msg, buildErr = BuildSDMF(MAX_MESSAGE_LEN, *date, *number)
	} else {
		msg, buildErr = BuildMDMF(MAX_MESSAGE_LEN, *date, *number, *name)
	}

	if buildErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Can't build message: %s\n", buildErr)
		os.Exit(1)
	}

	text_color_set(DW_COLOR_INFO)
	dw_printf("%s message, %d bytes, %s, %d samples per second.\n",
		MessageTypeName(msg.Type()), msg.Len(), mcfg.Standard, mcfg.SampleRate)

	if *hexDisplay {
		hexDump(msg.Bytes())
		dw_printf("%s\n", FormatBits(msg.Bytes(), mcfg.BitOrder, true))
	}

	var sink AudioOutput
	var openErr error

	if *play {
		sink, openErr = PlaybackOpener(mcfg.SampleRate)
	} else {
		sink, openErr = newWavWriter(*outputFile, mcfg.SampleRate, IfThenElse(*eightBitsPerSample, 8, 16))
	}

	if openErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", openErr)
		os.Exit(1)
	}

	var keyer Keyer

	if *gpioLine >= 0 {
		var relay, relayErr = OpenLineRelay(*gpioChip, *gpioLine, *gpioInvert)
		if relayErr != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", relayErr)
			os.Exit(1)
		}
		defer relay.Close()
		keyer = relay
	}

	var sendErr = generateMessages(mcfg, msg, *count, sink, keyer)

	if err := sink.Close(); err != nil && sendErr == nil {
		sendErr = err
	}

	if sendErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", sendErr)
		os.Exit(1)
	}
}

// generateMessages sends the same message count times with silence between.
func generateMessages(mcfg ModulatorConfig, msg *Message, count int, sink SampleSink, keyer Keyer) error {
	var silence = make([]int16, mcfg.SampleRate*GEN_GAP_MSEC/1000)

	for i := range count {
		var m, err = NewModulator(mcfg, msg)
		if err != nil {
			return err
		}

		if i > 0 {
			if err := sink.WriteSamples(silence); err != nil {
				return fmt.Errorf("%w: %w", ErrSinkRejected, err)
			}
		}

		if err := SendKeyed(m, sink, keyer); err != nil {
			return err
		}

		text_color_set(DW_COLOR_XMIT)
		dw_printf("[%d] %d samples in %d blocks.\n", i+1, m.Samples(), m.Blocks())
	}

	// Trailing silence so the last message isn't right at the end.
	if err := sink.WriteSamples(silence); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkRejected, err)
	}

	return nil
}
