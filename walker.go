package formwalker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultImplicitWait bounds element lookups when no other value is set.
const DefaultImplicitWait = 5 * time.Second

// Option configures a Walker.
type Option func(*Walker) error

// Logger sets the logger the walker reports steps and failures to.
func Logger(l logrus.FieldLogger) Option {
	return func(w *Walker) error {
		if l == nil {
			return errors.New("nil logger")
		}
		w.log = l
		return nil
	}
}

// Output sets where the one-line failure diagnostic is written. The default
// is standard output.
func Output(out io.Writer) Option {
	return func(w *Walker) error {
		if out == nil {
			return errors.New("nil output")
		}
		w.out = out
		return nil
	}
}

// WithPage replaces the default page locators.
func WithPage(p Page) Option {
	return func(w *Walker) error {
		if p.StartURL == "" {
			return errors.New("page start URL is empty")
		}
		w.page = p
		return nil
	}
}

// WithValues replaces the default form values.
func WithValues(v Values) Option {
	return func(w *Walker) error {
		w.values = v
		return nil
	}
}

// WithPacer sets how the walker waits between interactions.
func WithPacer(p Pacer) Option {
	return func(w *Walker) error {
		if p == nil {
			return errors.New("nil pacer")
		}
		w.pacer = p
		return nil
	}
}

// FinalDelay sets the pause taken before the session is closed.
func FinalDelay(d time.Duration) Option {
	return func(w *Walker) error {
		if d < 0 {
			return fmt.Errorf("negative final delay %v", d)
		}
		w.finalDelay = d
		return nil
	}
}

// ImplicitWait sets the implicit wait bound of the session.
func ImplicitWait(d time.Duration) Option {
	return func(w *Walker) error {
		if d < 0 {
			return fmt.Errorf("negative implicit wait %v", d)
		}
		w.implicitWait = d
		return nil
	}
}

// RunID sets the identifier attached to every log entry of the run. A random
// one is generated otherwise.
func RunID(id string) Option {
	return func(w *Walker) error {
		w.runID = id
		return nil
	}
}

// WithSleep replaces the function used for the final pause.
func WithSleep(f SleepFunc) Option {
	return func(w *Walker) error {
		if f == nil {
			return errors.New("nil sleep function")
		}
		w.sleep = f
		return nil
	}
}

// Walker fills in the demo web form through a browser session.
type Walker struct {
	open Opener

	page   Page
	values Values
	pacer  Pacer

	implicitWait time.Duration
	finalDelay   time.Duration
	sleep        SleepFunc

	runID string
	log   logrus.FieldLogger
	out   io.Writer
}

// New returns a Walker that acquires its session through open.
func New(open Opener, opts ...Option) (*Walker, error) {
	if open == nil {
		return nil, errors.New("nil session opener")
	}
	w := &Walker{
		open:         open,
		page:         DefaultPage(),
		values:       DefaultValues(),
		pacer:        NewFixedPacer(DefaultDelays()),
		implicitWait: DefaultImplicitWait,
		finalDelay:   DefaultFinalDelay,
		sleep:        Sleep,
		log:          logrus.StandardLogger(),
		out:          os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if w.runID == "" {
		w.runID = uuid.NewString()
	}
	return w, nil
}

// step is one named stage of the walk.
type step struct {
	name string
	do   func(ctx context.Context, s Session) error
}

func (w *Walker) steps() []step {
	p, v, pc := w.page, w.values, w.pacer
	return []step{
		{"open web form", func(ctx context.Context, s Session) error {
			return ClickLink(ctx, s, pc, p.WebFormLink)
		}},
		{"fill text input", func(ctx context.Context, s Session) error {
			return FillText(ctx, s, pc, p.TextInput, v.Text)
		}},
		{"select number", func(ctx context.Context, s Session) error {
			return SelectNumber(ctx, s, pc, p.Dropdown, v.NumberInt, v.NumberStr)
		}},
		{"select city", func(ctx context.Context, s Session) error {
			return FillDatalist(ctx, s, pc, p.Datalist, v.City)
		}},
		{"upload file", func(ctx context.Context, s Session) error {
			return UploadFile(ctx, s, pc, p.Upload, v.UploadFile)
		}},
		{"toggle checkbox and radio", func(ctx context.Context, s Session) error {
			return ToggleChoices(ctx, s, pc, p.Checkbox, p.Radio)
		}},
		{"pick color", func(ctx context.Context, s Session) error {
			return PickColor(ctx, s, pc, p.Color, v.Color)
		}},
		{"pick date", func(ctx context.Context, s Session) error {
			return PickDate(ctx, s, pc, p.Date, v.Date)
		}},
		{"move slider", func(ctx context.Context, s Session) error {
			return MoveSlider(ctx, s, pc, p.Slider, p.SliderDrag, v.SliderDirection, v.SliderSteps)
		}},
		{"submit form", func(ctx context.Context, s Session) error {
			return Submit(ctx, s, pc, p.Submit)
		}},
		{"go back", func(ctx context.Context, s Session) error {
			return GoBack(ctx, s, pc)
		}},
		{"return to index", func(ctx context.Context, s Session) error {
			return ClickLink(ctx, s, pc, p.ReturnLink)
		}},
	}
}

// Run opens a session, walks the web form and closes the session.
//
// A failing interaction ends the walk early: its message is written to the
// output and Run still returns nil. Only a session that cannot be set up is
// reported as an error. Whenever a session was acquired it is closed exactly
// once before Run returns.
func (w *Walker) Run(ctx context.Context) error {
	log := w.log.WithField("run", w.runID)

	s, err := w.open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	defer w.release(ctx, s, log)

	if err := w.setup(s); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	log.WithField("url", w.page.StartURL).Info("session ready")

	if err := w.walk(ctx, s, log); err != nil {
		fmt.Fprintf(w.out, "An error has occurred: %v\n", err)
		log.WithError(err).Error("form walk aborted")
		return nil
	}
	log.Info("form walk finished")
	return nil
}

func (w *Walker) setup(s Session) error {
	if err := s.SetImplicitWaitTimeout(w.implicitWait); err != nil {
		return fmt.Errorf("setting implicit wait: %w", err)
	}
	if err := s.Get(w.page.StartURL); err != nil {
		return fmt.Errorf("navigating to %s: %w", w.page.StartURL, err)
	}
	return nil
}

func (w *Walker) walk(ctx context.Context, s Session, log logrus.FieldLogger) error {
	for _, st := range w.steps() {
		if err := ctx.Err(); err != nil {
			return stepError(st.name, err)
		}
		log.WithField("step", st.name).Debug("running step")
		if err := st.do(ctx, s); err != nil {
			return stepError(st.name, err)
		}
	}
	return nil
}

func (w *Walker) release(ctx context.Context, s Session, log logrus.FieldLogger) {
	if ctx.Err() == nil {
		// Cancellation only shortens the pause; the session is closed either way.
		_ = w.sleep(ctx, w.finalDelay)
	}
	if err := s.Quit(); err != nil {
		log.WithError(err).Warn("closing session")
		return
	}
	log.Debug("session closed")
}
