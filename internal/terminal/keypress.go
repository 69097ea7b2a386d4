package terminal

import "io"

// KeyPress returns a channel that is closed once a single byte has been read
// from r, or once r reports an error (EOF included). The read is not
// cancellable; the reading goroutine ends with the read.
func KeyPress(r io.Reader) <-chan struct{} {
	pressed := make(chan struct{})
	go func() {
		defer close(pressed)
		var buf [1]byte
		for {
			n, err := r.Read(buf[:])
			if n > 0 || err != nil {
				return
			}
		}
	}()
	return pressed
}
