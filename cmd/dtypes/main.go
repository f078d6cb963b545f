// Command dtypes lists the canonical data type registry.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/arraykit/arraykit/codec"
	"github.com/arraykit/arraykit/dtype"
)

type typeInfo struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Alignment int    `json:"alignment"`
	Code      int    `json:"code"`
	Kind      string `json:"kind"`
}

func writeJSON(w io.Writer) error {
	for _, dt := range dtype.BuiltinDataTypes() {
		info := typeInfo{
			Name:      dt.Name(),
			Size:      dt.Size(),
			Alignment: dt.Alignment(),
			Code:      dtype.TypeCodeNone,
			Kind:      dtype.ScalarKindOf(dt).String(),
		}
		if c, err := dtype.TypeCode(dt); err == nil {
			info.Code = c
		}
		if _, err := w.Write(append(codec.MustMarshal(codec.Default, info), '\n')); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tALIGN\tCODE\tKIND")
	for _, dt := range dtype.BuiltinDataTypes() {
		code := "-"
		if c, err := dtype.TypeCode(dt); err == nil {
			code = strconv.Itoa(c)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", dt.Name(), dt.Size(), dt.Alignment(), code, dtype.ScalarKindOf(dt))
	}
	return w.Flush()
}

func main() {
	jsonOut := flag.Bool("json", false, "emit one JSON object per type")
	flag.Parse()

	var err error
	if *jsonOut {
		err = writeJSON(os.Stdout)
	} else {
		err = writeTable(os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
