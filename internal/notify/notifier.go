package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/pkg/circuitbreaker"
)

type Config struct {
	URL     string        `envconfig:"WEBHOOK_URL"`
	Timeout time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
	// Recovery is how many half-open deliveries must succeed in a row
	// before the breaker closes again.
	Recovery int `envconfig:"WEBHOOK_CB_RECOVERY" default:"3"`
}

// Notifier pushes loan decisions to the host application. Delivery is
// best-effort: the circuit breaker keeps a dead host from slowing down admin
// actions, and failures are logged, never surfaced to the caller's request.
type Notifier struct {
	cfg    Config
	client *http.Client
	cb     circuitbreaker.CircuitBreaker
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Notifier {
	recovery := cfg.Recovery
	if recovery <= 0 {
		recovery = 3
	}
	return &Notifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cb:  circuitbreaker.New(20, 30*time.Second, 0.5, recovery),
		log: log.Named("notify"),
	}
}

func (n *Notifier) LoanDecision(ctx context.Context, event model.LoanEvent) {
	if n.cfg.URL == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.log.Error("marshal event", zap.Error(err))
		return
	}

	err = n.cb.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := n.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return errors.Errorf("webhook status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		n.log.Warn("loan decision webhook",
			zap.String("loanUid", event.LoanUID),
			zap.String("eventType", event.EventType),
			zap.Error(err))
	}
}
