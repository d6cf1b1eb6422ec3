package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/Leganyst/consultation-platform/internal/config"
	"github.com/Leganyst/consultation-platform/internal/model"
)

const (
	SubjectConsultantAccepted = "Consultation request accepted"
	SubjectUserAccepted       = "Your consultation request was accepted: payment details"

	meetingTimeLayout = "2006-01-02 15:04 MST"
)

type Message struct {
	Subject string
	Body    string
}

// Composer собирает тексты писем о подтверждённой консультации.
type Composer struct {
	cfg config.NotificationConfig
	loc *time.Location
}

// NewComposer; при loc == nil время в письмах в UTC.
func NewComposer(cfg config.NotificationConfig, loc *time.Location) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{cfg: cfg, loc: loc}
}

func (c *Composer) ConsultantAccepted(a *model.AcceptedConsultation) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "You have accepted consultation request from user %d.\n\n", a.UserID)
	fmt.Fprintf(&b, "Consultation ID: %d\n", a.ConsultationID)
	fmt.Fprintf(&b, "Meeting date time: %s\n", c.formatMeetingAt(a.MeetingAt))
	fmt.Fprintf(&b, "Fee per hour: %d yen\n", a.FeePerHourInYen)
	b.WriteString("\nThe consultation takes place once the user completes the payment.\n")
	c.writeFooter(&b)

	return Message{Subject: SubjectConsultantAccepted, Body: b.String()}
}

func (c *Composer) UserAccepted(a *model.AcceptedConsultation) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Consultant %d has accepted your consultation request.\n\n", a.ConsultantID)
	fmt.Fprintf(&b, "Consultation ID: %d\n", a.ConsultationID)
	fmt.Fprintf(&b, "Meeting date time: %s\n", c.formatMeetingAt(a.MeetingAt))
	fmt.Fprintf(&b, "Amount due: %d yen\n", a.FeePerHourInYen)
	b.WriteString("\nPlease transfer the amount due before the meeting date time.\n")

	if c.cfg.BankName != "" {
		b.WriteString("\nBank transfer details\n")
		fmt.Fprintf(&b, "Bank: %s (%s)\n", c.cfg.BankName, c.cfg.BankCode)
		fmt.Fprintf(&b, "Branch: %s (%s)\n", c.cfg.BranchName, c.cfg.BranchCode)
		fmt.Fprintf(&b, "Account type: %s\n", c.cfg.AccountType)
		fmt.Fprintf(&b, "Account number: %s\n", c.cfg.AccountNumber)
		fmt.Fprintf(&b, "Account holder: %s\n", c.cfg.AccountHolder)
	}
	c.writeFooter(&b)

	return Message{Subject: SubjectUserAccepted, Body: b.String()}
}

func (c *Composer) formatMeetingAt(t time.Time) string {
	return t.In(c.loc).Format(meetingTimeLayout)
}

func (c *Composer) writeFooter(b *strings.Builder) {
	if c.cfg.InquiryAddress == "" {
		return
	}
	fmt.Fprintf(b, "\nQuestions: %s\n", c.cfg.InquiryAddress)
}
