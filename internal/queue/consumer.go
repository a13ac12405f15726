package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReservationConsumer connects to RabbitMQ, declares the
// reservation.booked and reservation.status queues (durable), and
// starts consuming both.  Each message is appended to
// logs/reservations.log in a single-line, human-friendly format.  The
// function runs a reconnect loop; it keeps running through broker
// restarts and rejects malformed messages without requeueing so the
// server continues operating.
func StartReservationConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{BookedQueueName, StatusQueueName} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	booked, err := ch.Consume(BookedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", BookedQueueName, err)
	}
	status, err := ch.Consume(StatusQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", StatusQueueName, err)
	}

	for {
		select {
		case d, ok := <-booked:
			if !ok {
				return errors.New("booked deliveries channel closed")
			}
			ackOrReject(d, handleBooked(d.Body))
		case d, ok := <-status:
			if !ok {
				return errors.New("status deliveries channel closed")
			}
			ackOrReject(d, handleStatus(d.Body))
		}
	}
}

func ackOrReject(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("reservation-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func handleBooked(body []byte) error {
	var ev ReservationBookedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation booked | reservation_id=%d | code=%s | restaurant_id=%d | user_id=%d | table=%q | date=%s | time=%s | persons=%d\n",
		ev.BookedAt, ev.ReservationID, ev.Code, ev.RestaurantID, ev.UserID, ev.TableNumber, ev.Date, ev.Time, ev.Persons)
	return appendLog(line)
}

func handleStatus(body []byte) error {
	var ev ReservationStatusEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation %s | reservation_id=%d | code=%s | restaurant_id=%d\n",
		ev.ChangedAt, ev.Status, ev.ReservationID, ev.Code, ev.RestaurantID)
	return appendLog(line)
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "reservations.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
