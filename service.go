package formwalker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// newExecCommand is swapped out by tests.
var newExecCommand = exec.Command

var (
	statusPollInterval = 250 * time.Millisecond
	statusPollAttempts = 120
)

// ServiceOption configures a DriverService.
type ServiceOption func(*DriverService) error

// Display specifies the value to which set the DISPLAY environment variable,
// as well as the path to the Xauthority file containing credentials needed to
// write to that X server.
func Display(d, xauthPath string) ServiceOption {
	return func(s *DriverService) error {
		if s.display != "" {
			return fmt.Errorf("service display already set: %v", s.display)
		}
		if s.xauthPath != "" {
			return fmt.Errorf("service xauth path already set: %v", s.xauthPath)
		}
		if !isDisplay(d) {
			return fmt.Errorf("supplied display %q must be of the format 'x' or 'x.y' where x and y are integers", d)
		}
		s.display = d
		s.xauthPath = xauthPath
		return nil
	}
}

// isDisplay validates that the given disp is in the format "x" or "x.y", where
// x and y are both integers.
func isDisplay(disp string) bool {
	ds := strings.Split(disp, ".")
	if len(ds) > 2 {
		return false
	}
	for _, d := range ds {
		if _, err := strconv.Atoi(d); err != nil {
			return false
		}
	}
	return true
}

// StartFrameBuffer causes an X virtual frame buffer to start before the driver.
// The frame buffer is stopped together with the driver.
func StartFrameBuffer(options FrameBufferOptions) ServiceOption {
	return func(s *DriverService) error {
		if s.xvfb != nil {
			return errors.New("service Xvfb instance already running")
		}
		fb, err := NewFrameBuffer(options)
		if err != nil {
			return fmt.Errorf("error starting frame buffer: %v", err)
		}
		s.xvfb = fb
		if err := Display(fb.Display, fb.AuthPath)(s); err != nil {
			fb.Stop()
			s.xvfb = nil
			return err
		}
		return nil
	}
}

// ServiceOutput sends the driver's stdout and stderr to w.
func ServiceOutput(w io.Writer) ServiceOption {
	return func(s *DriverService) error {
		s.output = w
		return nil
	}
}

// DriverService controls a locally running browser driver (msedgedriver,
// chromedriver or geckodriver).
type DriverService struct {
	port int
	addr string
	cmd  *exec.Cmd

	display, xauthPath string
	xvfb               *FrameBuffer

	output io.Writer
}

// driverArgs returns the command line that makes the driver for browser
// listen on port.
func driverArgs(browser string, port int) ([]string, error) {
	switch strings.ToLower(browser) {
	case "", Edge, Chrome:
		return []string{"--port=" + strconv.Itoa(port)}, nil
	case Firefox:
		return []string{"--port", strconv.Itoa(port)}, nil
	}
	return nil, fmt.Errorf("no driver known for browser %q", browser)
}

// StartDriver starts the driver binary at path for browser and waits until it
// answers on port.
func StartDriver(browser, path string, port int, opts ...ServiceOption) (*DriverService, error) {
	args, err := driverArgs(browser, port)
	if err != nil {
		return nil, err
	}
	s := &DriverService{
		port: port,
		addr: fmt.Sprintf("http://localhost:%d", port),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.stopFrameBuffer()
			return nil, err
		}
	}

	cmd := newExecCommand(path, args...)
	cmd.Stderr = s.output
	cmd.Stdout = s.output
	cmd.Env = append(cmd.Env, os.Environ()...)
	if s.display != "" {
		cmd.Env = append(cmd.Env, "DISPLAY=:"+s.display)
	}
	if s.xauthPath != "" {
		cmd.Env = append(cmd.Env, "XAUTHORITY="+s.xauthPath)
	}
	s.cmd = cmd

	if err := s.start(); err != nil {
		s.stopFrameBuffer()
		return nil, err
	}
	return s, nil
}

// Addr returns the URL prefix to pass as the WebDriver executor.
func (s *DriverService) Addr() string {
	return s.addr
}

// FrameBuffer returns the FrameBuffer if one was started by the service and
// nil otherwise.
func (s *DriverService) FrameBuffer() *FrameBuffer {
	return s.xvfb
}

func (s *DriverService) start() error {
	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("%w: starting driver: %v", ErrSessionUnavailable, err)
	}
	for i := 0; i < statusPollAttempts; i++ {
		time.Sleep(statusPollInterval)
		resp, err := http.Get(s.addr + "/status")
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return nil
		}
	}
	s.cmd.Process.Kill()
	s.cmd.Wait()
	return fmt.Errorf("%w: driver did not respond on port %d", ErrSessionUnavailable, s.port)
}

// Stop kills the driver and the X virtual frame buffer if one was started.
func (s *DriverService) Stop() error {
	if err := s.cmd.Process.Kill(); err != nil {
		return err
	}
	if err := s.cmd.Wait(); err != nil && err.Error() != "signal: killed" {
		return err
	}
	return s.stopFrameBuffer()
}

func (s *DriverService) stopFrameBuffer() error {
	if s.xvfb == nil {
		return nil
	}
	err := s.xvfb.Stop()
	s.xvfb = nil
	return err
}

// FrameBufferOptions describes the options that can be used to create a frame
// buffer.
type FrameBufferOptions struct {
	// ScreenSize is the option for the frame buffer screen size.
	// This is of the form "{width}x{height}[x{depth}]". For example: "1024x768x24"
	ScreenSize string
}

var screenSizeExpression = regexp.MustCompile(`^\d+x\d+(?:x\d+)?$`)

// FrameBuffer controls an X virtual frame buffer running as a background
// process.
type FrameBuffer struct {
	// Display is the X11 display number that the Xvfb process is hosting
	// (without the preceding colon).
	Display string
	// AuthPath is the path to the X11 authorization file that permits X clients
	// to use the X server.
	AuthPath string

	cmd *exec.Cmd
}

// NewFrameBuffer starts an X virtual frame buffer running in the background.
func NewFrameBuffer(options FrameBufferOptions) (*FrameBuffer, error) {
	arguments := []string{"-displayfd", "3", "-nolisten", "tcp"}
	if options.ScreenSize != "" {
		if !screenSizeExpression.MatchString(options.ScreenSize) {
			return nil, fmt.Errorf("invalid screen size: expected 'WxH[xD]', got %q", options.ScreenSize)
		}
		arguments = append(arguments, "-screen", "0", options.ScreenSize)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	auth, err := ioutil.TempFile("", "formwalker-xvfb")
	if err != nil {
		w.Close()
		return nil, err
	}
	authPath := auth.Name()
	if err := auth.Close(); err != nil {
		w.Close()
		return nil, err
	}

	// Xvfb prints the display it listens on to file descriptor 3.
	xvfb := newExecCommand("Xvfb", arguments...)
	xvfb.ExtraFiles = []*os.File{w}
	xvfb.Env = append(xvfb.Env, "XAUTHORITY="+authPath)
	if err := xvfb.Start(); err != nil {
		w.Close()
		os.Remove(authPath)
		return nil, err
	}
	w.Close()
	fb := &FrameBuffer{AuthPath: authPath, cmd: xvfb}

	type resp struct {
		display string
		err     error
	}
	ch := make(chan resp, 1)
	go func() {
		s, err := bufio.NewReader(r).ReadString('\n')
		ch <- resp{s, err}
	}()

	select {
	case resp := <-ch:
		if resp.err != nil {
			fb.Stop()
			return nil, resp.err
		}
		fb.Display = strings.TrimSpace(resp.display)
		if _, err := strconv.Atoi(fb.Display); err != nil {
			fb.Stop()
			return nil, errors.New("Xvfb did not print the display number")
		}
	case <-time.After(3 * time.Second):
		fb.Stop()
		return nil, errors.New("timeout waiting for Xvfb")
	}

	xauth := newExecCommand("xauth", "generate", ":"+fb.Display, ".", "trusted")
	xauth.Env = append(xauth.Env, "XAUTHORITY="+authPath)
	if out, err := xauth.CombinedOutput(); err != nil {
		fb.Stop()
		return nil, fmt.Errorf("xauth: %v: %s", err, out)
	}
	return fb, nil
}

// Stop kills the background frame buffer process and removes the X
// authorization file.
func (f *FrameBuffer) Stop() error {
	if err := f.cmd.Process.Kill(); err != nil {
		return err
	}
	os.Remove(f.AuthPath) // best effort removal; ignore error
	if err := f.cmd.Wait(); err != nil && err.Error() != "signal: killed" {
		return err
	}
	return nil
}
