package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/clinic-slots-engine/internal/config"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/in"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

type AppointmentAction string

const (
	AppointmentActionBooked    AppointmentAction = "booked"
	AppointmentActionCancelled AppointmentAction = "cancelled"
)

// AppointmentEvent - событие о записи на прием из внешних систем клиники.
type AppointmentEvent struct {
	Action        AppointmentAction `json:"action"`
	DoctorID      uuid.UUID         `json:"doctorId"`
	AppointmentID uuid.UUID         `json:"appointmentId"`
	Date          string            `json:"date"`
	StartTime     json_types.Time   `json:"startTime"`
	EndTime       json_types.Time   `json:"endTime"`
}

type AppointmentListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.ScheduleUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewAppointmentListener(useCase in.ScheduleUseCase, cfg *config.Config, logger out.LoggerPort) (*AppointmentListener, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &AppointmentListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *AppointmentListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := l.processMessage(ctx, msg); err != nil {
					l.logger.Error("rabbitmq.message.process_failed", out.LogFields{
						"error": err.Error(),
					})
					msg.Nack(false, true) // requeue
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("rabbitmq.listener.started", out.LogFields{
		"queue": queue.Name,
	})

	return nil
}

func (l *AppointmentListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var event AppointmentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		// Битое сообщение подтверждаем и выбрасываем, иначе зациклимся на requeue
		l.logger.Warn("rabbitmq.message.malformed", out.LogFields{
			"error": err.Error(),
		})
		return nil
	}

	date, err := utils.ParseDate(event.Date)
	if err != nil {
		l.logger.Warn("rabbitmq.message.malformed", out.LogFields{
			"error": err.Error(),
			"date":  event.Date,
		})
		return nil
	}

	switch event.Action {
	case AppointmentActionBooked:
		result, err := l.useCase.BookAppointment(ctx, event.DoctorID, date, event.StartTime, event.EndTime, event.AppointmentID)
		if err != nil {
			return err
		}
		if result.HasConflict {
			// Конфликт не транспортная ошибка, просто фиксируем отказ
			l.logger.Warn("rabbitmq.appointment.rejected", out.LogFields{
				"appointmentId": event.AppointmentID,
				"conflicts":     result.Conflicts,
			})
		}
		return nil
	case AppointmentActionCancelled:
		return l.useCase.CancelAppointment(ctx, event.DoctorID, event.AppointmentID)
	default:
		l.logger.Warn("rabbitmq.message.unknown_action", out.LogFields{
			"action": event.Action,
		})
		return nil
	}
}

func (l *AppointmentListener) Stop() error {
	if l.channel != nil {
		if err := l.channel.Close(); err != nil {
			return err
		}
	}
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
