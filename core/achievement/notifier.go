package achievement

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
)

const celebrationTemplate = "achievement_celebration"

// AddressBook resolves the email address of a user.
type AddressBook interface {
	EmailAddress(ctx context.Context, userID string) (mail.Address, error)
}

// MailNotifier emails a celebration message for every advancement.
type MailNotifier struct {
	mailSvc core.EmailService
	book    AddressBook
	logger  core.Logger
	from    mail.Address
}

func NewMailNotifier(mailSvc core.EmailService, book AddressBook, conf *core.Config, logger core.Logger) *MailNotifier {
	return &MailNotifier{
		mailSvc: mailSvc,
		book:    book,
		logger:  logger,
		from:    conf.DefaultFromEmail(),
	}
}

type celebrationData struct {
	Name    string
	Track   TrackName
	Tier    Tier
	IsBelt  bool
	Message string
}

func (n *MailNotifier) Celebrate(ctx context.Context, res AdvanceResult) {
	if !res.Advanced || res.Tier == nil {
		return
	}
	to, err := n.book.EmailAddress(ctx, res.UserID)
	if err != nil {
		n.logger.Warn(fmt.Sprintf("achievement.MailNotifier: no address for %s: %v", res.UserID, err))
		return
	}
	if to.Address == "" {
		return
	}

	kind := "level"
	if res.Track == TrackBelt {
		kind = "belt"
	}
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      fmt.Sprintf("You earned the %s %s!", res.Tier.Name, kind),
		TemplateName: celebrationTemplate,
		TemplateData: celebrationData{
			Name:    to.Name,
			Track:   res.Track,
			Tier:    *res.Tier,
			IsBelt:  res.Track == TrackBelt,
			Message: res.Tier.Message,
		},
	})
}
