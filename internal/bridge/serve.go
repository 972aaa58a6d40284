package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// maxLineBytes bounds one request line. Frames cross the boundary base64
// encoded inside the envelope, so lines run to megabytes for large capture
// regions.
const maxLineBytes = 64 * 1024 * 1024

// Serve pumps newline-delimited request envelopes from in and writes one
// response line per request to out. Requests are handled one at a time in
// arrival order. Serve returns nil on EOF and ctx.Err() on cancellation;
// a cancelled Serve abandons the blocked read, so the caller owns closing
// the input stream.
func (d *Dispatcher) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			// The scanner reuses its buffer; hand off a copy.
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
		}
	}()

	d.logger.Info("Serving bridge requests")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				// The pump is done; it reports a scan failure, if any,
				// just before closing the channel.
				select {
				case err := <-readErr:
					return fmt.Errorf("reading request stream: %w", err)
				default:
				}
				d.logger.Info("Request stream closed")
				return nil
			}
			if len(line) == 0 {
				continue
			}
			if err := d.writeResponse(out, d.handleLine(ctx, line)); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
}

// handleLine decodes one request envelope and dispatches it. An envelope
// that does not parse still gets a response, with whatever request ID could
// be recovered (usually none).
func (d *Dispatcher) handleLine(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		d.logger.Warn("Undecodable request line", zap.Error(err))
		return Response{ID: req.ID, Error: fmt.Sprintf("%v: %v", ErrMalformedInput, err)}
	}
	return d.Dispatch(ctx, req)
}

func (d *Dispatcher) writeResponse(out io.Writer, resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		// Marshal failures mean a handler returned an unencodable result,
		// which is a bug; still answer the host rather than going silent.
		payload, _ = json.Marshal(Response{ID: resp.ID, Error: fmt.Sprintf("encoding response: %v", err)})
	}
	if _, err := out.Write(append(payload, '\n')); err != nil {
		return err
	}
	return nil
}
