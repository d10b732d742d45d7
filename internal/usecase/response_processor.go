package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/lojabot/backend/internal/domain"
)

// Two accepted image notations, matched as one alternation so only the
// first occurrence in the text counts: the 📸 marker followed by an absolute
// URL, or a markdown image link.
var imagePattern = regexp.MustCompile(`📸\s*(https?://\S+)|!\[.*?\]\((https?://\S+)\)`)

// Broad single-notation patterns used when precise line removal fails
var (
	markerFormPattern  = regexp.MustCompile(`📸\s*https?://\S+\n?`)
	bracketFormPattern = regexp.MustCompile(`!\[.*?\]\(https?://\S+\)\n?`)
)

// Fixed store logo shown above every proxied product image
const logoImageTag = `<img src="/images/informatica_logo.png" alt="Cia da Informática Logo" style="max-height: 50px; display: block; margin: 0 auto 10px auto;">`

// ExtractImage finds the first embedded image notation in the text and
// returns its URL plus the exact matched substring. Returns nil when the
// text carries neither notation.
func ExtractImage(text string) *domain.ImageReference {
	match := imagePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	imageURL := match[1]
	if imageURL == "" {
		imageURL = match[2]
	}
	return &domain.ImageReference{
		URL:       imageURL,
		FullMatch: match[0],
	}
}

// FormatFinal builds the display payload: an image block (logo plus the
// extracted image routed through the proxy endpoint) when ref is non-nil,
// followed by the image-stripped text wrapped in the message container with
// newlines converted to <br>. The result is always HTML.
func FormatFinal(text string, ref *domain.ImageReference) string {
	imageHTML := ""
	cleaned := text

	if ref != nil && ref.URL != "" {
		cleaned = removeImageNotation(text, ref)

		proxied := "/proxy-image?url=" + url.QueryEscape(ref.URL)
		imageHTML = `<div style="text-align: center; margin-bottom: 10px;">` +
			logoImageTag +
			`<img src="` + proxied + `" alt="Imagem do Produto" style="max-width: 100%; max-height: 300px; display: block; margin: 0 auto;">` +
			`</div>`
	}

	textHTML := `<div class="message-text-content">` + strings.ReplaceAll(cleaned, "\n", "<br>") + `</div>`
	return imageHTML + textHTML
}

// removeImageNotation strips the matched image reference from the text.
// First pass removes the whole line containing the exact matched substring;
// if that leaves the text unchanged (the match failed to anchor to a line),
// a second pass removes the raw notations anywhere in the text.
func removeImageNotation(text string, ref *domain.ImageReference) string {
	lineRemoval := regexp.MustCompile(`(?m)^.*?` + regexp.QuoteMeta(ref.FullMatch) + `.*$\n?`)
	cleaned := strings.TrimSpace(lineRemoval.ReplaceAllString(text, ""))
	if cleaned != text {
		return cleaned
	}

	cleaned = markerFormPattern.ReplaceAllString(text, "")
	cleaned = bracketFormPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
