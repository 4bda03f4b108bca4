// Command jsonfrag reads a JSON or MessagePack document, re-encodes it with the
// fragment encoder and writes the result to stdout or publishes it over NATS.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/RobertWHurst/jsonfrag"
	"github.com/RobertWHurst/jsonfrag/convert"
	"github.com/RobertWHurst/jsonfrag/decode"
	natstransport "github.com/RobertWHurst/jsonfrag/transports/nats"
)

type options struct {
	input         string
	format        string
	sortKeys      bool
	skipKeys      bool
	allowNaN      bool
	checkCircular bool
	maxDepth      int
	ascii         bool
	compact       bool
	itemSeparator string
	keySeparator  string
	natsURL       string
	natsSubject   string
	logLevel      string
}

func newApp(opts *options) *kingpin.Application {
	app := kingpin.New("jsonfrag", "Re-encode a JSON or MessagePack document as JSON fragments.")
	app.HelpFlag.Short('h')

	app.Flag("input", "File to read, - for stdin.").Short('i').Default("-").StringVar(&opts.input)
	app.Flag("format", "Input format.").Short('f').Default("json").EnumVar(&opts.format, "json", "msgpack")
	app.Flag("sort-keys", "Sort map entries by key.").BoolVar(&opts.sortKeys)
	app.Flag("skip-keys", "Drop entries whose key is not a scalar.").BoolVar(&opts.skipKeys)
	app.Flag("allow-nan", "Write NaN and Infinity instead of failing.").Default("true").BoolVar(&opts.allowNaN)
	app.Flag("check-circular", "Detect circular references.").Default("true").BoolVar(&opts.checkCircular)
	app.Flag("max-depth", "Maximum nesting depth, negative for unbounded.").Default(fmt.Sprint(jsonfrag.DefaultMaxDepth)).IntVar(&opts.maxDepth)
	app.Flag("ascii", "Escape all non ASCII characters.").BoolVar(&opts.ascii)
	app.Flag("compact", "Omit whitespace after separators.").BoolVar(&opts.compact)
	app.Flag("item-separator", "Separator between items, overrides --compact.").StringVar(&opts.itemSeparator)
	app.Flag("key-separator", "Separator between key and value, overrides --compact.").StringVar(&opts.keySeparator)
	app.Flag("nats.url", "Publish to this NATS server instead of writing to stdout.").StringVar(&opts.natsURL)
	app.Flag("nats.subject", "Subject to publish on.").Default("documents").StringVar(&opts.natsSubject)
	app.Flag("log.level", "Only log messages with the given severity or above.").Default("info").EnumVar(&opts.logLevel, "debug", "info", "warn", "error")

	return app
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "jsonfrag: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := &options{}
	app := newApp(opts)
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(nil)

	if _, err := app.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stderr, opts.logLevel)

	data, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	value, err := decodeInput(opts.format, data)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "decoded input", "format", opts.format, "bytes", len(data))

	frags, err := jsonfrag.New(opts.config()).Encode(value)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	level.Debug(logger).Log("msg", "encoded document", "fragments", frags.Len(), "bytes", frags.Size())

	if opts.natsURL != "" {
		return publish(opts.natsURL, opts.natsSubject, frags, logger)
	}

	if _, err := frags.WriteTo(stdout); err != nil {
		return errors.Wrap(err, "write output")
	}
	_, err = io.WriteString(stdout, "\n")
	return err
}

func (o *options) config() jsonfrag.Config {
	cfg := jsonfrag.DefaultConfig()
	if o.compact {
		cfg = jsonfrag.CompactConfig()
	}
	if o.itemSeparator != "" {
		cfg.ItemSeparator = o.itemSeparator
	}
	if o.keySeparator != "" {
		cfg.KeySeparator = o.keySeparator
	}
	cfg.SortKeys = o.sortKeys
	cfg.SkipKeys = o.skipKeys
	cfg.AllowNaN = o.allowNaN
	cfg.DisableCircularCheck = !o.checkCircular
	cfg.MaxDepth = o.maxDepth
	if o.ascii {
		cfg.Escape = jsonfrag.QuoteASCII
	}
	cfg.Default = convert.Default()
	return cfg
}

func newLogger(w io.Writer, lvl string) log.Logger {
	var allow level.Option
	switch lvl {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowInfo()
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "read %s", path)
}

func decodeInput(format string, data []byte) (jsonfrag.Value, error) {
	switch format {
	case "msgpack":
		return decode.MsgPack(data)
	default:
		return decode.JSON(data)
	}
}

func publish(url, subject string, frags *jsonfrag.Fragments, logger log.Logger) error {
	conn, err := nats.Connect(url, nats.Name("jsonfrag"))
	if err != nil {
		return errors.Wrapf(err, "connect to %s", url)
	}
	defer conn.Close()

	transport := natstransport.NewNatsTransport(conn, logger)
	defer transport.Close()

	if err := transport.Send(subject, frags); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "published document", "subject", subject, "bytes", frags.Size())
	return nil
}
