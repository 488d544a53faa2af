/* Test fixture for the caller ID receiver */
package callerid

/*-------------------------------------------------------------------
 *
 * Purpose:     Test fixture for the caller ID receiver.
 *
 * Inputs:	Takes audio from .WAV files instead of the audio device.
 *
 * Description:	This can be used to test the demodulator under
 *		controlled and reproducible conditions.
 *
 *		For example
 *
 *			cidgen -m 10 -o test.wav
 *			cidtest -L 10 -G 10 test.wav
 *
 *--------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

var atest_hex_display bool

/*-------------------------------------------------------------------
 *
 * Name:        decodeSamples
 *
 * Purpose:     Run audio through the receiver, as many messages as
 *		it contains.
 *
 * Inputs:	rx	- Receiver.  May already be part way into a message.
 *
 *		handle	- Called for each complete message, valid or not.
 *
 * Returns:	Number of complete messages.
 *
 *--------------------------------------------------------------------*/

func decodeSamples(rx *Receiver, samples []int16, handle func(msg *Message, fields []Field, err error)) int {
	var n = 0

	for len(samples) > 0 {
		var used, done = rx.FeedPCM(samples)
		samples = samples[used:]

		if !done {
			break
		}

		var fields, err = rx.Decode()
		handle(rx.Message(), fields, err)
		n++

		rx.Reset()
	}

	return n
}

func CidTestMain() {
	var configFile = pflag.StringP("config", "c", "", "Configuration file.  Default is to look for "+CONFIG_FILE_NAME+".")
	var standardName = pflag.StringP("standard", "S", "", "Modem: v23-forward-1, v23-forward-2, v23-backward, bell202.")
	var errorIfLessThan = pflag.IntP("error-if-less-than", "L", -1, "Error if less than this number of valid messages decoded.")
	var errorIfGreaterThan = pflag.IntP("error-if-greater-than", "G", -1, "Error if greater than this number of valid messages decoded.")
	var hexDisplay = pflag.BoolP("hex-display", "h", false, "Print message contents as hexadecimal bytes.")
	var logDir = pflag.StringP("log-dir", "l", "", "Directory for daily CSV log files.")
	var logFile = pflag.StringP("log-file", "f", "", "CSV log file.")
	var logLevel = pflag.StringP("log-level", "v", "", "Diagnostic level: debug, info, warn, error.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s is a test application which decodes caller ID from audio recordings.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... <WAV FILE>...\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "$ cidgen -o test1.wav\n")
		fmt.Fprintf(os.Stderr, "$ cidtest test1.wav\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "$ cidgen -S v23-forward-2 -m 5 -o test2.wav\n")
		fmt.Fprintf(os.Stderr, "$ cidtest -S v23-forward-2 -L 5 test2.wav\n")
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

	if *standardName != "" {
		cfg.Modem.Standard = *standardName
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *logDir != "" || *logFile != "" {
		cfg.Log.Dir = *logDir
		cfg.Log.File = *logFile
	}

	if err := cfg.Validate(); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	if err := cfg.ApplyLog(); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}
	defer LogTerm()

	atest_hex_display = *hexDisplay

	if pflag.NArg() == 0 {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Specify .WAV file name on command line.\n")
		pflag.Usage()
		os.Exit(1)
	}

	var standard, _ = LookupStandard(cfg.Modem.Standard)

	var start_time = time.Now()
	var total_filetime float64
	var decoded_total = 0
	var invalid_total = 0

	for _, wavFileName := range pflag.Args() {
		var audio, err = readWav(wavFileName)
		if err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}

		text_color_set(DW_COLOR_INFO)
		dw_printf("%d samples per second.  %d bits per sample.  1 audio channel.\n", audio.samples_per_sec, audio.bits_per_sample)

		var one_filetime = float64(len(audio.samples)) / float64(audio.samples_per_sec)
		total_filetime += one_filetime

		dw_printf("%d audio samples in file.  Duration = %.1f seconds.\n", len(audio.samples), one_filetime)

		/*
		 * Needs to be done for each file because they could have different sample rates.
		 */
		var rx, rxErr = NewReceiver(standard, audio.samples_per_sec, cfg.Modem.Capacity)
		if rxErr != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", rxErr)
			os.Exit(1)
		}

		var decoded_one = 0

		decodeSamples(rx, audio.samples, func(msg *Message, fields []Field, err error) {
			var ev = NewEventFromFields(wavFileName, time.Now(), msg, fields, err)
			atest_print_message(decoded_total+invalid_total+1, msg, ev)
			LogWrite(ev)

			if ev.Valid {
				decoded_one++
				decoded_total++
			} else {
				invalid_total++
			}
		})

		text_color_set(DW_COLOR_INFO)
		dw_printf("\n%d from %s\n", decoded_one, wavFileName)
	}

	var elapsed = time.Since(start_time)

	dw_printf("%d messages decoded in %.3f seconds.  %.1f x realtime\n", decoded_total, elapsed.Seconds(), total_filetime/max(elapsed.Seconds(), 1e-6))

	if invalid_total > 0 {
		dw_printf("%d invalid messages.\n", invalid_total)
	}

	if *errorIfLessThan != -1 && decoded_total < *errorIfLessThan {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("\n * * * TEST FAILED: number decoded is less than %d * * * \n", *errorIfLessThan)
		os.Exit(1)
	}

	if *errorIfGreaterThan != -1 && decoded_total > *errorIfGreaterThan {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("\n * * * TEST FAILED: number decoded is greater than %d * * * \n", *errorIfGreaterThan)
		os.Exit(1)
	}
}

func atest_print_message(n int, msg *Message, ev Event) {
	dw_printf("\n")

	if !ev.Valid {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("[%d] %s message, %d bytes: %s\n", n, ev.Type, msg.Len(), ev.Error)
	} else {
		text_color_set(DW_COLOR_DECODED)
		dw_printf("[%d] %s message, %d bytes\n", n, ev.Type, msg.Len())
	}

	for _, f := range ev.Fields {
		dw_printf("    %s\n", f)
	}

	if atest_hex_display {
		text_color_set(DW_COLOR_DEBUG)
		hexDump(msg.Bytes())
	}
}
