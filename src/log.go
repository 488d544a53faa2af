package callerid

/*------------------------------------------------------------------
 *
 * Purpose:	Save received caller ID to a log file.
 *
 * Description: One CSV line per message, easy to read or load into
 *		something else later.
 *
 *		There are two alternatives here.
 *
 *		-f logfile		Specify full file path.
 *
 *		-l logdir		Daily names will be created here.
 *
 *		Use one or the other but not both.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/csv"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

const LOG_DAILY_FORMAT = "%Y-%m-%d.log"

var log_header = []string{"id", "utime", "isotime", "channel", "type", "valid", "error", "phone_num", "phone_name", "datetime", "extra", "raw"}

/*------------------------------------------------------------------
 *
 * Function:	LogInit
 *
 * Inputs:	daily_names	- True if daily names should be generated.
 *				  In this case path is a directory.
 *				  When false, path would be the file name.
 *
 *		path		- Log file name or just directory.
 *				  Use "." for current directory.
 *				  Empty string disables feature.
 *
 *------------------------------------------------------------------*/

var g_daily_names bool
var g_log_path string
var g_log_fp *os.File
var g_open_fname string

func LogInit(daily_names bool, path string) {
	LogTerm()

	g_daily_names = daily_names
	g_log_path = ""
	g_open_fname = ""

	if len(path) == 0 {
		return
	}

	if g_daily_names {
		var stat, statErr = os.Stat(path)

		if statErr == nil {
			if stat.IsDir() {
				g_log_path = path
			} else {
				text_color_set(DW_COLOR_ERROR)
				dw_printf("Log file location \"%s\" is not a directory.\n", path)
				dw_printf("Using current working directory \".\" instead.\n")
				g_log_path = "."
			}
		} else {
			// Doesn't exist.  Try to create it.
			// We don't create multiple levels like "mkdir -p"
			var mkdirErr = os.Mkdir(path, 0755)
			if mkdirErr == nil {
				text_color_set(DW_COLOR_INFO)
				dw_printf("Log file location \"%s\" has been created.\n", path)
				g_log_path = path
			} else {
				text_color_set(DW_COLOR_ERROR)
				dw_printf("Failed to create log file location \"%s\".\n", path)
				dw_printf("%s\n", mkdirErr)
				dw_printf("Using current working directory \".\" instead.\n")
				g_log_path = "."
			}
		}
	} else {
		text_color_set(DW_COLOR_INFO)
		dw_printf("Log file is \"%s\"\n", path)
		g_log_path = path
	}
}

// dailyName is the file name for the day of t, UTC.
func dailyName(t time.Time) string {
	var name, err = strftime.Format(LOG_DAILY_FORMAT, t.UTC())
	Assert(err == nil)

	return name
}

func log_open(full_path string) bool {
	var _, statErr = os.Stat(full_path)
	var already_there = statErr == nil

	text_color_set(DW_COLOR_INFO)
	dw_printf("Opening log file \"%s\".\n", full_path)

	var f, openErr = os.OpenFile(full_path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644) //nolint:gosec
	if openErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Can't open log file \"%s\" for write.\n", full_path)
		dw_printf("%s\n", openErr)

		return false
	}

	g_log_fp = f

	if !already_there {
		var w = csv.NewWriter(g_log_fp)
		_ = w.Write(log_header)
		w.Flush()
	}

	return true
}

/*------------------------------------------------------------------
 *
 * Function:	LogWrite
 *
 * Purpose:	Save information to log file.
 *
 * Inputs:	ev	- Received message, valid or not.
 *
 *------------------------------------------------------------------*/

func LogWrite(ev Event) {
	if len(g_log_path) == 0 {
		return
	}

	var now = ev.Time.UTC()

	if g_daily_names {
		var fname = dailyName(now)

		// Close current if a new day.
		if g_log_fp != nil && fname != g_open_fname {
			LogTerm()
		}

		if g_log_fp == nil {
			if !log_open(filepath.Join(g_log_path, fname)) {
				g_open_fname = ""
				return
			}
			g_open_fname = fname
		}
	} else if g_log_fp == nil {
		if !log_open(g_log_path) {
			g_log_path = ""
			return
		}
	}

	var extra []string
	for _, k := range slices.Sorted(maps.Keys(ev.CallerID.Extra)) {
		extra = append(extra, k+"="+ev.CallerID.Extra[k])
	}

	var w = csv.NewWriter(g_log_fp)
	var err = w.Write([]string{
		ev.ID,
		strconv.FormatInt(now.Unix(), 10),
		now.Format("2006-01-02T15:04:05Z"),
		ev.Channel,
		ev.Type,
		strconv.FormatBool(ev.Valid),
		ev.Error,
		ev.CallerID.Number,
		ev.CallerID.Name,
		ev.CallerID.Date,
		strings.Join(extra, ";"),
		ev.Raw,
	})
	w.Flush()

	if err == nil {
		err = w.Error()
	}

	if err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Error writing log file: %s\n", err)
	}
}

// LogTerm closes any open log file.
func LogTerm() {
	if g_log_fp != nil {
		text_color_set(DW_COLOR_INFO)
		dw_printf("Closing log file \"%s\".\n", g_log_fp.Name())

		g_log_fp.Close()
		g_log_fp = nil
		g_open_fname = ""
	}
}
