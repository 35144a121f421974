package notify

import (
	"fmt"
	"time"
)

const messageTimeLayout = "02/01/2006 15:04"

func bookedMessage(customerName, serviceName string, start time.Time) string {
	return fmt.Sprintf(
		"Olá %s! Seu horário de %s está confirmado para %s. Até logo!",
		customerName, serviceName, start.Format(messageTimeLayout),
	)
}

func cancelledMessage(customerName, serviceName string, start time.Time) string {
	return fmt.Sprintf(
		"Olá %s, seu horário de %s em %s foi cancelado. Entre em contato para remarcar.",
		customerName, serviceName, start.Format(messageTimeLayout),
	)
}

func rescheduledMessage(customerName, serviceName string, start time.Time) string {
	return fmt.Sprintf(
		"Olá %s! Seu horário de %s foi remarcado para %s.",
		customerName, serviceName, start.Format(messageTimeLayout),
	)
}

func reminderMessage(customerName, serviceName, professionalName string, start time.Time) string {
	return fmt.Sprintf(
		"Olá %s! Lembrete: %s com %s amanhã, %s.",
		customerName, serviceName, professionalName, start.Format(messageTimeLayout),
	)
}
