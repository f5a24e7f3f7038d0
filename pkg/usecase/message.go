package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
)

//go:embed templates/status.txt.tmpl
var textTemplate string

//go:embed templates/status.html.tmpl
var htmlTemplate string

// variantContent holds the wording for one message variant
type variantContent struct {
	subject     string
	status      string
	statusColor string
	bodyText    string
	footer      string
}

var variants = map[model.Variant]variantContent{
	model.VariantPositive: {
		subject:     "GitHub Streak Monitor - You're Slaying (%s)",
		status:      "FIRE",
		statusColor: "#28a745",
		bodyText:    "No cap, you're absolutely crushing it! You made %d commit(s) today. That green dot is looking fresh.",
		footer:      "Keep up the grind, you're doing amazing!",
	},
	model.VariantWarning: {
		subject:     "GitHub Streak Monitor - We Need to Talk (%s)",
		status:      "ALERT",
		statusColor: "#dc3545",
		bodyText:    "Yikes, no commits detected today. Your contribution streak is about to catch these hands if you don't commit something ASAP. Don't let that green dot ghost you!",
		footer:      "Time to push something before it's too late. You got this!",
	},
}

type pushLine struct {
	Time string
	Repo string
}

type messageData struct {
	Date        string
	Status      string
	StatusColor string
	StatusText  string
	BodyText    string
	Footer      string
	Window      string
	Pushes      []pushLine
}

// Composer renders status messages. Output depends only on its inputs.
type Composer struct {
	from   string
	to     string
	window model.CheckWindow
	text   *template.Template
	html   *htmltemplate.Template
}

// NewComposer parses the embedded templates
func NewComposer(from, to string, window model.CheckWindow) (*Composer, error) {
	text, err := template.New("text").Parse(textTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse text template")
	}
	html, err := htmltemplate.New("html").Parse(htmlTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse HTML template")
	}

	return &Composer{
		from:   from,
		to:     to,
		window: window,
		text:   text,
		html:   html,
	}, nil
}

// Compose builds the message for result
func (c *Composer) Compose(result *model.CheckResult) (*model.Message, error) {
	v := variants[result.Variant()]

	data := messageData{
		Date:        result.Date,
		Status:      v.status,
		StatusColor: v.statusColor,
		Footer:      v.footer,
		Window:      c.window.String(),
	}

	if result.HadCommitInWindow {
		data.StatusText = fmt.Sprintf("Found %d commit(s) between %s and %s", len(result.Pushes), c.window.Start, c.window.End)
		data.BodyText = fmt.Sprintf(v.bodyText, len(result.Pushes))
	} else {
		data.StatusText = fmt.Sprintf("No commits found between %s and %s", c.window.Start, c.window.End)
		data.BodyText = v.bodyText
	}

	for _, p := range result.Pushes {
		data.Pushes = append(data.Pushes, pushLine{
			Time: p.CreatedAt.In(c.window.Location).Format("15:04:05 MST"),
			Repo: p.Repo,
		})
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := c.text.Execute(&textBuf, data); err != nil {
		return nil, goerr.Wrap(err, "failed to render text body")
	}
	if err := c.html.Execute(&htmlBuf, data); err != nil {
		return nil, goerr.Wrap(err, "failed to render HTML body")
	}

	return &model.Message{
		From:    c.from,
		To:      c.to,
		Subject: fmt.Sprintf(v.subject, result.Date),
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}
