// Command convex-cell is a small CLI over the cell codec: encode a literal
// into its canonical binary form, decode bytes back into a literal, or
// print a cell's content hash. It exists for poking at the wire format by
// hand and for generating fixtures -- it owns no protocol logic of its own.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"convex.dev/convex/cell"
	"convex.dev/convex/compliance"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}

func run(args []string, out, errOut io.Writer, in io.Reader) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}
	switch args[0] {
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut, in)
	case "hash":
		return cmdHash(args[1:], out, errOut, in)
	case "inspect":
		return cmdInspect(args[1:], out, errOut, in)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "convex-cell: canonical cell encoding CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  convex-cell encode <literal>   writes canonical bytes to stdout")
	fmt.Fprintln(w, "  convex-cell decode             reads bytes from stdin, prints the literal")
	fmt.Fprintln(w, "  convex-cell hash <literal>     prints the cell's hex content hash")
	fmt.Fprintln(w, "  convex-cell inspect [--mode lenient|strict]  reads bytes from stdin")
	fmt.Fprintln(w, "                                 (lenient tolerates malformed UTF-8 for")
	fmt.Fprintln(w, "                                 read-only inspection of historical captures)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Literal syntax:")
	fmt.Fprintln(w, "  null | true | false | long:<n> | double:<f> | address:<n>")
	fmt.Fprintln(w, "  string:<s> | keyword:<s> | symbol:<s> | blob:<hex>")
}

func cmdEncode(args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: convex-cell encode <literal>")
		return 2
	}
	c, err := parseLiteral(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "invalid literal: %v\n", err)
		return 2
	}
	_, _ = out.Write(cell.Encode(c))
	return 0
}

func cmdDecode(args []string, out, errOut io.Writer, in io.Reader) int {
	if len(args) != 0 {
		fmt.Fprintln(errOut, "usage: convex-cell decode  (bytes on stdin)")
		return 2
	}
	b, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(errOut, "read stdin: %v\n", err)
		return 1
	}
	c, err := cell.Decode(b)
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, formatLiteral(c))
	return 0
}

func cmdHash(args []string, out, errOut io.Writer, in io.Reader) int {
	var c cell.Cell
	var err error
	if len(args) == 1 {
		c, err = parseLiteral(args[0])
		if err != nil {
			fmt.Fprintf(errOut, "invalid literal: %v\n", err)
			return 2
		}
	} else if len(args) == 0 {
		b, rerr := io.ReadAll(in)
		if rerr != nil {
			fmt.Fprintf(errOut, "read stdin: %v\n", rerr)
			return 1
		}
		c, err = cell.Decode(b)
		if err != nil {
			fmt.Fprintf(errOut, "decode: %v\n", err)
			return 1
		}
	} else {
		fmt.Fprintln(errOut, "usage: convex-cell hash [<literal>]  (reads bytes from stdin if omitted)")
		return 2
	}
	h := cell.Hash(c)
	fmt.Fprintln(out, hex.EncodeToString(h[:]))
	return 0
}

// cmdInspect reads bytes from stdin and decodes them the way cmdDecode does,
// except --mode lenient additionally prints the raw tag byte and hex payload
// of an otherwise-BadFormat buffer instead of refusing to show anything.
// This path never feeds back into cell.Decode's own rules -- it only
// changes what this one read-only tool shows on failure.
func cmdInspect(args []string, out, errOut io.Writer, in io.Reader) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	modeFlag := fs.String("mode", "strict", "strict|lenient")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	mode, ok := compliance.Parse(*modeFlag)
	if !ok {
		fmt.Fprintf(errOut, "invalid --mode %q\n", *modeFlag)
		return 2
	}

	b, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(errOut, "read stdin: %v\n", err)
		return 1
	}

	c, err := cell.Decode(b)
	if err == nil {
		fmt.Fprintln(out, formatLiteral(c))
		return 0
	}
	if mode == compliance.Strict {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "malformed (lenient salvage): %v\n", err)
	if len(b) > 0 {
		fmt.Fprintf(out, "tag: 0x%02x\n", b[0])
	}
	fmt.Fprintf(out, "raw: %s\n", hex.EncodeToString(b))
	return 0
}

func parseLiteral(s string) (cell.Cell, error) {
	switch s {
	case "null":
		return cell.Null{}, nil
	case "true":
		return cell.Bool(true), nil
	case "false":
		return cell.Bool(false), nil
	}
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("expected kind:value, got %q", s)
	}
	switch kind {
	case "long":
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, err
		}
		return cell.Long(n), nil
	case "double":
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, err
		}
		return cell.Double(f), nil
	case "address":
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return nil, err
		}
		return cell.Address(n), nil
	case "string":
		return cell.StringShort(rest), nil
	case "keyword":
		return cell.Keyword(rest), nil
	case "symbol":
		return cell.Symbol(rest), nil
	case "blob":
		b, err := hex.DecodeString(rest)
		if err != nil {
			return nil, err
		}
		return cell.BlobShort(b), nil
	default:
		return nil, fmt.Errorf("unknown literal kind %q", kind)
	}
}

func formatLiteral(c cell.Cell) string {
	switch v := c.(type) {
	case cell.Null:
		return "null"
	case cell.Bool:
		if v {
			return "true"
		}
		return "false"
	case cell.ByteFlag:
		return fmt.Sprintf("byteflag:%d", uint8(v))
	case cell.Long:
		return fmt.Sprintf("long:%d", int64(v))
	case cell.Double:
		return fmt.Sprintf("double:%v", float64(v))
	case cell.Address:
		return fmt.Sprintf("address:%d", uint64(v))
	case cell.StringShort:
		return fmt.Sprintf("string:%s", string(v))
	case cell.Keyword:
		return fmt.Sprintf("keyword:%s", string(v))
	case cell.Symbol:
		return fmt.Sprintf("symbol:%s", string(v))
	case cell.BlobShort:
		return fmt.Sprintf("blob:%s", hex.EncodeToString(v))
	default:
		return fmt.Sprintf("%T: (non-scalar, use decode on the full multi-cell buffer)", c)
	}
}
