package trainerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с TrainerService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента TrainerService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAvailability получает расписание тренера за период [from, to] включительно
func (c *Client) GetAvailability(ctx context.Context, trainerID int64, from, to time.Time) (*Availability, error) {
	query := url.Values{}
	query.Set("from", from.Format(domain.DateFormat))
	query.Set("to", to.Format(domain.DateFormat))
	endpoint := fmt.Sprintf("%s/internal/trainers/%d/availability?%s", c.baseURL, trainerID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid trainer ID or period", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrTrainerNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var availability Availability
	if err := json.NewDecoder(resp.Body).Decode(&availability); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &availability, nil
}

// GetAvailabilityWithGracefulDegradation получает расписание тренера с graceful degradation
// При недоступности TrainerService возвращает ErrServiceDegraded: вызывающий решает,
// пропустить ли проверку тренера
func (c *Client) GetAvailabilityWithGracefulDegradation(ctx context.Context, trainerID int64, from, to time.Time) (*Availability, error) {
	c.log.Info("Fetching availability for trainer_id=%d from %s to %s",
		trainerID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	availability, err := c.GetAvailability(ctx, trainerID, from, to)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			c.log.Warn("Trainer not found: trainer_id=%d", trainerID)
			return nil, err
		}

		c.log.Error("TrainerService unavailable, applying graceful degradation for trainer_id=%d: %v", trainerID, err)
		return nil, fmt.Errorf("%w: trainer_id=%d, error=%v", ErrServiceDegraded, trainerID, err)
	}

	c.log.Info("Successfully fetched availability for trainer_id=%d: %d days", trainerID, len(availability.Days))
	return availability, nil
}

// ToDomain преобразует расписание в дни по ключу YYYY-MM-DD
// Некорректные интервалы отбрасываются
func (a *Availability) ToDomain() map[string]domain.TrainerDay {
	days := make(map[string]domain.TrainerDay, len(a.Days))
	for _, d := range a.Days {
		date, err := domain.ParseDate(d.Date)
		if err != nil {
			continue
		}
		days[date.Format(domain.DateFormat)] = domain.TrainerDay{
			Working: toIntervals(d.Working),
			Busy:    toIntervals(d.Busy),
		}
	}
	return days
}

func toIntervals(raw []Interval) []domain.TimeInterval {
	out := make([]domain.TimeInterval, 0, len(raw))
	for _, r := range raw {
		interval := domain.TimeInterval{Start: types.TimeString(r.Start), End: types.TimeString(r.End)}
		if interval.Validate() != nil {
			continue
		}
		out = append(out, interval)
	}
	return out
}
