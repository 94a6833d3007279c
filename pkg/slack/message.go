package slack

import (
	"fmt"

	goslack "github.com/slack-go/slack"
)

// BuildBookingMessage creates Block Kit blocks for a test-ride OTP
// notification. The channel stands in for an SMS gateway in this setup.
func BuildBookingMessage(name, phone, otp string) []goslack.Block {
	header := goslack.NewSectionBlock(
		goslack.NewTextBlockObject(goslack.MarkdownType,
			":car: *Test ride requested*", false, false),
		nil, nil,
	)
	details := goslack.NewSectionBlock(nil, []*goslack.TextBlockObject{
		goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*Name:*\n%s", name), false, false),
		goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*Phone:*\n%s", phone), false, false),
		goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*OTP:*\n`%s`", otp), false, false),
	}, nil)
	footer := goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType,
			"The code expires in 10 minutes and can be used once.", false, false),
	)
	return []goslack.Block{header, details, footer}
}
