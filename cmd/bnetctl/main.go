// Command bnetctl is a small CLI over the bnet library: one subcommand
// per interchange-format conversion, plus stats and a standalone
// metrics server. Grounded on main.go (flagx/rtx/prometheusx wiring)
// and cmd/csvtool/main.go (stdin/file argument handling, gocsv output).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"

	"github.com/yusuke-matsunaga/bnet/aiger"
	"github.com/yusuke-matsunaga/bnet/binio"
	"github.com/yusuke-matsunaga/bnet/blif"
	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/internal/bnetmetrics"
	"github.com/yusuke-matsunaga/bnet/iscas89"
	"github.com/yusuke-matsunaga/bnet/truthio"
	"github.com/yusuke-matsunaga/bnet/verilog"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func main() {
	if len(os.Args) < 2 {
		logFatal("usage: bnetctl <aig2net|net2aig|truth2net|net2blif|net2iscas89|net2verilog|stats|serve-metrics> [flags]")
	}
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "aig2net":
		runAig2Net(args)
	case "net2aig":
		runNet2Aig(args)
	case "truth2net":
		runTruth2Net(args)
	case "net2blif":
		runNetToFormat(args, "blif", writeBlif)
	case "net2iscas89":
		runNetToFormat(args, "iscas89", writeIscas89)
	case "net2verilog":
		runNetToFormat(args, "verilog", writeVerilog)
	case "stats":
		runStats(args)
	case "serve-metrics":
		runServeMetrics(args)
	default:
		logFatal("unknown subcommand %q", cmd)
	}
}

// A variable so tests can mock process exit; mirrors csvtool's logFatal.
var logFatal = log.Fatalf

func openIn(path string) (*os.File, func()) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}
	}
	f, err := os.Open(path)
	rtx.Must(err, "could not open %q", path)
	return f, func() { f.Close() }
}

func createOut(path string) (*os.File, func()) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	rtx.Must(err, "could not create %q", path)
	return f, func() { f.Close() }
}

// observe records a successful operation's latency and bumps its
// counter. Deferred right after a start := time.Now(): rtx.Must exits
// the process on error (via log.Fatalf), so by the time a deferred
// observe runs, the operation it covers has already succeeded.
func observe(format, direction string, start time.Time) {
	bnetmetrics.OpLatencyHistogram.WithLabelValues(format, direction).Observe(time.Since(start).Seconds())
	if direction == "read" {
		bnetmetrics.ReadTotal.WithLabelValues(format).Inc()
	} else {
		bnetmetrics.WriteTotal.WithLabelValues(format).Inc()
	}
}

func runAig2Net(args []string) {
	fs := flag.NewFlagSet("aig2net", flag.ExitOnError)
	in := fs.String("in", "-", "input .aag/.aig file (- for stdin)")
	out := fs.String("out", "-", "output binio dump (- for stdout)")
	binary := fs.Bool("binary", false, "input is AIGER binary format, not ASCII")
	rtx.Must(fs.Parse(args), "could not parse flags")
	flagx.ArgsFromEnv(fs)

	inFile, closeIn := openIn(*in)
	defer closeIn()

	start := time.Now()
	defer observe("aiger", "read", start)

	var err error
	var model *aiger.Model
	if *binary {
		model, err = aiger.ReadBinary(inFile)
	} else {
		model, err = aiger.ReadASCII(inFile)
	}
	rtx.Must(err, "could not read AIGER input")

	net, err := aiger.ToBnet(model)
	rtx.Must(err, "could not convert AIGER model to network")
	bnetmetrics.NodeCountHistogram.Observe(float64(net.NodeNum()))

	outFile, closeOut := createOut(*out)
	defer closeOut()
	rtx.Must(binio.Dump(outFile, net), "could not dump network")
}

func runNet2Aig(args []string) {
	fs := flag.NewFlagSet("net2aig", flag.ExitOnError)
	in := fs.String("in", "-", "input binio dump (- for stdin)")
	out := fs.String("out", "-", "output .aag/.aig file (- for stdout)")
	binary := fs.Bool("binary", false, "emit AIGER binary format, not ASCII")
	rtx.Must(fs.Parse(args), "could not parse flags")
	flagx.ArgsFromEnv(fs)

	inFile, closeIn := openIn(*in)
	defer closeIn()
	net, err := binio.Restore(inFile, nil)
	rtx.Must(err, "could not restore network")

	start := time.Now()
	defer observe("aiger", "write", start)

	model, err := aiger.FromBnet(net)
	rtx.Must(err, "could not convert network to AIGER model")

	outFile, closeOut := createOut(*out)
	defer closeOut()
	if *binary {
		err = aiger.WriteBinary(outFile, model)
	} else {
		err = aiger.WriteASCII(outFile, model)
	}
	rtx.Must(err, "could not write AIGER output")
}

func runTruth2Net(args []string) {
	fs := flag.NewFlagSet("truth2net", flag.ExitOnError)
	in := fs.String("in", "-", "input .truth file (- for stdin)")
	out := fs.String("out", "-", "output binio dump (- for stdout)")
	rtx.Must(fs.Parse(args), "could not parse flags")
	flagx.ArgsFromEnv(fs)

	inFile, closeIn := openIn(*in)
	defer closeIn()

	start := time.Now()
	defer observe("truth", "read", start)

	net, err := truthio.Read(inFile)
	rtx.Must(err, "could not read .truth input")
	bnetmetrics.NodeCountHistogram.Observe(float64(net.NodeNum()))

	outFile, closeOut := createOut(*out)
	defer closeOut()
	rtx.Must(binio.Dump(outFile, net), "could not dump network")
}

func writeBlif(w *os.File, net *bnet.Network) error {
	return blif.Write(w, net, blif.WriteOptions{})
}

func writeIscas89(w *os.File, net *bnet.Network) error {
	return iscas89.Write(w, net, iscas89.WriteOptions{})
}

func writeVerilog(w *os.File, net *bnet.Network) error {
	return verilog.Write(w, net, verilog.WriteOptions{})
}

func runNetToFormat(args []string, format string, write func(*os.File, *bnet.Network) error) {
	fs := flag.NewFlagSet("net2"+format, flag.ExitOnError)
	in := fs.String("in", "-", "input binio dump (- for stdin)")
	out := fs.String("out", "-", "output file (- for stdout)")
	rtx.Must(fs.Parse(args), "could not parse flags")
	flagx.ArgsFromEnv(fs)

	inFile, closeIn := openIn(*in)
	defer closeIn()
	net, err := binio.Restore(inFile, nil)
	rtx.Must(err, "could not restore network")

	start := time.Now()
	defer observe(format, "write", start)

	outFile, closeOut := createOut(*out)
	defer closeOut()
	err = write(outFile, net)
	rtx.Must(err, "could not write %s output", format)
}

// statsRow is one network's summary, the row shape gocsv marshals for
// "stats -csv".
type statsRow struct {
	File  string `csv:"file"`
	Name  string `csv:"name"`
	Nodes int    `csv:"nodes"`
	Ports int    `csv:"ports"`
	Dffs  int    `csv:"dffs"`
	Logic int    `csv:"logic"`
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	asCSV := fs.Bool("csv", false, "emit rows as CSV instead of a plain table")
	rtx.Must(fs.Parse(args), "could not parse flags")
	flagx.ArgsFromEnv(fs)

	files := fs.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}

	rows := make([]*statsRow, 0, len(files))
	for _, path := range files {
		f, closeF := openIn(path)
		net, err := binio.Restore(f, nil)
		closeF()
		if err != nil {
			bnetmetrics.ReadErrorsTotal.WithLabelValues("binio").Inc()
			log.Printf("skipping %q: could not restore network: %v", path, err)
			continue
		}

		logic, err := net.LogicList()
		rtx.Must(err, "could not list logic nodes in %q", path)
		bnetmetrics.ReadTotal.WithLabelValues("binio").Inc()
		bnetmetrics.NodeCountHistogram.Observe(float64(net.NodeNum()))

		rows = append(rows, &statsRow{
			File:  path,
			Name:  net.Name(),
			Nodes: net.NodeNum(),
			Ports: len(net.Ports()),
			Dffs:  net.DffNum(),
			Logic: len(logic),
		})
	}

	if *asCSV {
		rtx.Must(gocsv.Marshal(rows, os.Stdout), "could not marshal stats to CSV")
		return
	}
	for _, r := range rows {
		fmt.Printf("%s: name=%s nodes=%d ports=%d dffs=%d logic=%d\n",
			r.File, r.Name, r.Nodes, r.Ports, r.Dffs, r.Logic)
	}
}

func runServeMetrics(args []string) {
	fs := flag.NewFlagSet("serve-metrics", flag.ExitOnError)
	addr := fs.String("addr", ":9090", "prometheus metrics export address and port")
	rtx.Must(fs.Parse(args), "could not parse flags")
	flagx.ArgsFromEnv(fs)

	srv := prometheusx.MustStartPrometheus(*addr)
	defer srv.Close()
	select {}
}
