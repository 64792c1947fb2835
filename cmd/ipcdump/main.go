// Command ipcdump inspects and validates framed ipc message streams stored
// in a file, for manual testing and debugging.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/colexch/ipc"
	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/region"
)

// sentinels lists the errs taxonomy in the order validate checks them, so
// the reported sentinel is the most specific one that matches.
var sentinels = []error{
	errs.ErrUnexpectedEOF,
	errs.ErrIncompatibleVersion,
	errs.ErrUnexpectedHeader,
	errs.ErrOversizedBatch,
	errs.ErrBufferLayoutViolation,
	errs.ErrUnsupportedType,
	errs.ErrTransportError,
	errs.ErrAlreadyReleased,
	errs.ErrStreamPoisoned,
	errs.ErrInvalidFieldLayout,
	errs.ErrChannelNotAligned,
}

// countingReader tracks how many bytes have been read through it, so the
// CLI can report the starting offset of each message without the stream
// packages needing to expose read-side position tracking themselves.
type countingReader struct {
	r   io.Reader
	pos int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)

	return n, err
}

func describeMessage(msg ipc.Message) string {
	switch msg.Kind {
	case ipc.KindSchema:
		return fmt.Sprintf("Schema   fields=%d", len(msg.Schema.Fields))
	case ipc.KindRecordBatch:
		return fmt.Sprintf("RecordBatch  length=%d buffers=%d", msg.RecordBatch.Length, len(msg.RecordBatch.Buffers))
	case ipc.KindDictionaryBatch:
		return fmt.Sprintf("DictionaryBatch  id=%d length=%d", msg.DictionaryBatch.ID, msg.DictionaryBatch.Data.Length)
	default:
		return "unknown"
	}
}

// walk visits every message of the stream at path. On success it returns
// the number of bytes read, end-of-stream marker included; on failure it
// returns the starting offset of the message that failed.
func walk(path string, visit func(offset int64, msg ipc.Message) error) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cr := &countingReader{r: f}
	sr := ipc.NewStreamReader(iochan.NewReader(cr), region.NewHeapAllocator())

	for {
		offset := cr.pos

		msg, ok, err := sr.Next()
		if err != nil {
			return offset, err
		}
		if !ok {
			return cr.pos, nil
		}

		if visitErr := visit(offset, msg); visitErr != nil {
			_ = msg.Release()
			return offset, visitErr
		}

		if err := msg.Release(); err != nil {
			return offset, err
		}
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Stream a framed ipc file, printing one line per message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 0

			_, err := walk(args[0], func(offset int64, msg ipc.Message) error {
				count++
				fmt.Printf("[%6d] %-16s %s\n", offset, msg.Kind, describeMessage(msg))

				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("%d messages\n", count)

			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Traverse a framed ipc file and report the first error, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				count      int
				fieldCount int
				sawSchema  bool
			)

			pos, err := walk(args[0], func(offset int64, msg ipc.Message) error {
				count++

				if msg.Kind == ipc.KindSchema {
					sawSchema = true
					fieldCount = len(msg.Schema.Fields)
				}

				return nil
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid stream at offset %d: %v\n", pos, err)

				for _, sentinel := range sentinels {
					if errors.Is(err, sentinel) {
						fmt.Fprintf(os.Stderr, "sentinel: %v\n", sentinel)
						break
					}
				}

				return err
			}

			fmt.Printf("ok: %d messages, %d bytes, schema fields=%d (schema present: %v)\n",
				count, pos, fieldCount, sawSchema)

			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:   "ipcdump",
		Short: "Inspect and validate framed ipc message streams",
	}

	root.AddCommand(newInspectCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
