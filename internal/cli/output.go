package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDecoded(w io.Writer, d decoded) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", d.ID)
	fmt.Fprintf(tw, "timestamp:\t%s\n", d.Timestamp.Format(time.RFC3339Nano))
	fmt.Fprintf(tw, "machine_id:\t%d\n", d.MachineID)
	fmt.Fprintf(tw, "sequence:\t%d\n", d.Sequence)
	fmt.Fprintf(tw, "epoch:\t%s\n", d.Epoch.Format(time.RFC3339Nano))
	return tw.Flush()
}
