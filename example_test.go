package moqt_test

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/quic-ly/moqt"
)

// Example demonstrates framing a control message on one side of a pipe and
// parsing it back out on the other, the way a QUIC session would drive a
// Framer and ControlParser over its control stream. The producer and
// consumer run concurrently via errgroup, mirroring how a real session
// pumps reads and writes on separate goroutines.
func Example() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r, w := io.Pipe()
	framer := moqt.NewFramer(false)
	parser := moqt.NewControlParser(false)

	var g errgroup.Group
	g.Go(func() error {
		defer w.Close()
		frame, err := framer.SerializeUnsubscribe(moqt.Unsubscribe{SubscribeID: 7})
		if err != nil {
			return err
		}
		_, err = w.Write(frame)
		return err
	})

	result := make(chan *moqt.Unsubscribe, 1)
	g.Go(func() error {
		buf := make([]byte, 64)
		n, err := r.Read(buf)
		if err != nil && err != io.EOF {
			return err
		}
		parser.ProcessData(buf[:n], false)
		if perr := parser.Err(); perr != nil {
			return perr
		}
		for _, event := range parser.DrainEvents() {
			if m, ok := event.(*moqt.Unsubscribe); ok {
				result <- m
				return nil
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("pipe session failed", "err", err)
		os.Exit(1)
	}
	close(result)

	m := <-result
	fmt.Println(m.SubscribeID)
	// Output: 7
}
