package command

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"jarvis/internal/assist"
)

// EmailConfig is read from the environment by main (EMAIL_* variables).
type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

func (c EmailConfig) configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// Communication sends messages on the user's behalf. Always sensitive: the
// dispatcher demands hotkey confirmation before anything leaves the machine.
type Communication struct {
	cfg  EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewCommunication(cfg EmailConfig) *Communication {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &Communication{cfg: cfg, send: smtp.SendMail}
}

func (c *Communication) SendEmail(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	if !c.cfg.configured() {
		return assist.Result{Message: "Email is not configured."}, nil
	}

	recipient := in.Slots["recipient"]
	body := in.Slots["body"]
	if recipient == "" || !strings.Contains(recipient, "@") {
		return assist.Result{Message: "I need a valid email address."}, nil
	}
	if body == "" {
		return assist.Result{Message: "What should the email say?"}, nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Message from Jarvis\r\n\r\n%s\r\n",
		c.cfg.Username, recipient, body)

	auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	if err := c.send(c.cfg.Host+":"+c.cfg.Port, auth, c.cfg.Username, []string{recipient}, []byte(msg)); err != nil {
		return assist.Result{}, fmt.Errorf("send mail: %w", err)
	}

	return assist.Result{Success: true, Message: fmt.Sprintf("Email sent to %s.", recipient), SideEffects: true}, nil
}
