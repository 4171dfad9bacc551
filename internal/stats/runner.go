package stats

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/hitch/http"
)

// SendFunc performs one request
type SendFunc func(ctx context.Context) (*http.Response, error)

// Runner repeats a request sequentially, optionally paced to a fixed rate
type Runner struct {
	Count  int
	Rate   float64 // requests per second, 0 for unpaced
	Logger logrus.FieldLogger

	// OnResponse, when set, sees every response in order
	OnResponse func(i int, resp *http.Response)
}

// Run sends Count requests one after another and returns their summary.
// A request that fails before producing a response stops the run.
func (r *Runner) Run(ctx context.Context, send SendFunc) (Summary, error) {
	recorder := NewRecorder()

	var limiter *rate.Limiter
	if r.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.Rate), 1)
	}

	count := r.Count
	if count < 1 {
		count = 1
	}

	for i := 0; i < count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return recorder.Summary(), err
			}
		} else if err := ctx.Err(); err != nil {
			return recorder.Summary(), err
		}

		resp, err := send(ctx)
		if err != nil {
			return recorder.Summary(), err
		}

		status, _ := resp.StatusCode()
		recorder.Record(resp.ElapsedDuration(), status, resp.IsSuccess())

		if r.Logger != nil {
			r.Logger.WithFields(logrus.Fields{
				"iteration": i + 1,
				"status":    status,
				"elapsed":   resp.ElapsedString(http.DefaultElapsedPrecision),
			}).Debug("repeat iteration")
		}
		if r.OnResponse != nil {
			r.OnResponse(i, resp)
		}
	}

	return recorder.Summary(), nil
}
