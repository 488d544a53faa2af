package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Caller ID monitor.  Listens to a telephone line and
 *		reports each incoming caller.
 *
 * Description:	Reports go to any combination of
 *
 *			- the terminal,
 *			- CSV log files,
 *			- an MQTT broker,
 *			- a pseudo terminal or serial port, in the same
 *			  form as a voice modem.
 *
 *		Counters are available for Prometheus and the HTTP
 *		service can be announced with DNS-SD.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

func CidMonMain() {
	var configFile = pflag.StringP("config", "c", "", "Configuration file.  Default is to look for "+CONFIG_FILE_NAME+".")
	var channel = pflag.StringP("channel", "C", "", "Name of the line, used in logs and MQTT topics.")
	var standardName = pflag.StringP("standard", "S", "", "Modem: v23-forward-1, v23-forward-2, v23-backward, bell202.")
	var sampleRate = pflag.IntP("rate", "r", 0, "Audio sample rate.")
	var input = pflag.StringP("input", "i", "", "Read a .WAV file, or - for raw audio on stdin, instead of the sound card.")
	var codecName = pflag.StringP("codec", "e", "", "Raw audio encoding on stdin: linear, ulaw, alaw.")
	var timeout = pflag.DurationP("timeout", "t", DEFAULT_MESSAGE_TIMEOUT, "Give up on a message after this long.")
	var usePty = pflag.BoolP("pty", "p", false, "Report on a pseudo terminal, linked from "+TMP_CALLERID_SYMLINK+".")
	var serialDevice = pflag.StringP("serial", "s", "", "Report on this serial port.")
	var serialBaud = pflag.IntP("baud", "b", 9600, "Serial port speed.")
	var mqttBroker = pflag.StringP("mqtt", "m", "", "Publish to this MQTT broker, e.g. tcp://localhost:1883.")
	var metricsAddr = pflag.StringP("metrics", "M", "", "Serve metrics on this address, e.g. :9101.")
	var dnssdName = pflag.String("dns-sd-name", "", "Announce the metrics service with this name.")
	var noDnssd = pflag.Bool("no-dns-sd", false, "Don't announce the metrics service.")
	var logDir = pflag.StringP("log-dir", "l", "", "Directory for daily CSV log files.")
	var logLevel = pflag.StringP("log-level", "v", "", "Diagnostic level: debug, info, warn, error.")
	var textColor = pflag.IntP("text-color", "T", -1, "Text colors: 0 = off, 1 = light background, 2 = dark.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s watches a telephone line for caller ID.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]...\n", os.Args[0])
		pflag.PrintDefaults()
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

	if *channel != "" {
		cfg.Channel = *channel
	}
	if *standardName != "" {
		cfg.Modem.Standard = *standardName
	}
	if *sampleRate != 0 {
		cfg.Modem.SampleRate = *sampleRate
	}
	if *codecName != "" {
		cfg.Modem.Codec = *codecName
	}
	if *mqttBroker != "" {
		cfg.MQTT.Enabled = true
		cfg.MQTT.Broker = *mqttBroker
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *logDir != "" {
		cfg.Log.Dir = *logDir
		cfg.Log.File = ""
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *textColor >= 0 {
		cfg.Log.Color = *textColor
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

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var in, inErr = openMonitorInput(*input, cfg)
	if inErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", inErr)
		os.Exit(1)
	}
	defer in.Close()

	/* A .WAV file decides its own sample rate. */
	if w, ok := in.(*wavInput); ok {
		cfg.Modem.SampleRate = w.samples_per_sec
	}

	var rx, rxErr = cfg.NewReceiver()
	if rxErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", rxErr)
		os.Exit(1)
	}

	var mon = NewMonitor(cfg.Channel, rx, *timeout)
	mon.AddHandler(PrintEvent)
	mon.AddHandler(LogWrite)

	if cfg.Metrics.Addr != "" {
		var reg = prometheus.NewRegistry()
		rx.SetMetrics(NewMetrics(reg))

		if err := serveMetrics(ctx, cfg.Metrics, reg); err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}

		if !*noDnssd {
			go announceMetrics(ctx, *dnssdName, cfg.Metrics)
		}
	}

	if cfg.MQTT.Enabled {
		var pub, err = NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}
		defer pub.Close()

		mon.AddHandler(func(ev Event) {
			if err := pub.Publish(ev); err != nil {
				logger.Warn("mqtt publish failed", "err", err)
			}
		})
	}

	if *usePty {
		var p, err = OpenPseudoTerminal(TMP_CALLERID_SYMLINK)
		if err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}
		defer p.Close()

		text_color_set(DW_COLOR_INFO)
		dw_printf("Reports available on %s, also %s\n", p.Name(), TMP_CALLERID_SYMLINK)

		addReporter(mon, NewModemReporter(p.Name(), p))
	}

	if *serialDevice != "" {
		var port, err = SerialPortOpen(*serialDevice, *serialBaud)
		if err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}
		defer port.Close()

		addReporter(mon, NewModemReporter(*serialDevice, port))
	}

	text_color_set(DW_COLOR_INFO)
	dw_printf("Listening on channel %s, %s, %d samples per second.\n", cfg.Channel, cfg.Modem.Standard, cfg.Modem.SampleRate)

	if err := mon.Run(ctx, in); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	text_color_set(DW_COLOR_INFO)
	dw_printf("\n%d messages, %d invalid.\n", mon.Messages(), mon.Invalid())
}

func addReporter(mon *Monitor, r *ModemReporter) {
	mon.AddHandler(func(ev Event) {
		if err := r.Report(ev); err != nil {
			logger.Warn("report failed", "err", err)
		}
	})
}

// wavInput is a .WAV file read in sound card sized pieces.
type wavInput struct {
	*pcmInput

	samples_per_sec int
}

func openMonitorInput(name string, cfg Config) (AudioInput, error) { //nolint:ireturn
	switch name {
	case "":
		return CaptureOpener(cfg.Modem.SampleRate, captureFrames(cfg.Modem.SampleRate))
	case "-":
		var codec, err = LookupCodec(cfg.Modem.Codec)
		if err != nil {
			return nil, err
		}

		return newCodecInput(os.Stdin, codec, captureFrames(cfg.Modem.SampleRate)), nil
	default:
		var audio, err = readWav(name)
		if err != nil {
			return nil, err
		}

		return &wavInput{
			pcmInput:        newPCMInput(audio.samples, captureFrames(audio.samples_per_sec)),
			samples_per_sec: audio.samples_per_sec,
		}, nil
	}
}

func serveMetrics(ctx context.Context, cfg MetricsSection, reg *prometheus.Registry) error {
	var mux = http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})) //nolint:exhaustruct

	var listener, err = net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	var server = &http.Server{ //nolint:exhaustruct
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	logger.Info("serving metrics", "addr", listener.Addr().String(), "path", cfg.Path)

	return nil
}

func announceMetrics(ctx context.Context, name string, cfg MetricsSection) {
	var _, portStr, err = net.SplitHostPort(cfg.Addr)
	if err != nil {
		logger.Warn("DNS-SD: can't get port", "addr", cfg.Addr, "err", err)
		return
	}

	var port, perr = strconv.Atoi(portStr)
	if perr != nil {
		logger.Warn("DNS-SD: can't get port", "addr", cfg.Addr, "err", perr)
		return
	}

	if err := DNSSDAnnounce(ctx, name, port, cfg.Path); err != nil {
		logger.Warn("DNS-SD announcement failed", "err", err)
	}
}
