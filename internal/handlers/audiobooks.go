// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"audiobook-admin/internal/catalog"
	"audiobook-admin/internal/markdown"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/slug"
	"audiobook-admin/internal/upload"
)

// defaultLanguage is preselected on the create form.
const defaultLanguage = "en"

// audiobookForm is the create form as submitted. Price stays a string so
// a bad value can be shown back to the user unchanged.
type audiobookForm struct {
	Title           string           `form:"title" validate:"required,max=300"`
	Slug            string           `form:"slug" validate:"max=300"`
	AuthorName      string           `form:"author_name" validate:"required,max=200"`
	NarratorName    string           `form:"narrator_name" validate:"max=200"`
	ISBN            string           `form:"isbn" validate:"max=20"`
	Price           string           `form:"price"`
	Language        string           `form:"language" validate:"max=10"`
	PublicationDate string           `form:"publication_date" validate:"omitempty,datetime=2006-01-02"`
	CoverImageURL   string           `form:"cover_image_url" validate:"omitempty,url"`
	SampleURL       string           `form:"sample_url" validate:"omitempty,url"`
	Description     string           `form:"description" validate:"max=20000"`
	CategoryIDs     []string         `form:"category_ids"`
	Chapters        []models.Chapter `form:"chapters" validate:"dive"`
}

// chapterKey matches chapter inputs such as "chapters[3].title".
var chapterKey = regexp.MustCompile(`^chapters\[(\d+)\]\.(title|url|duration|size|mime)$`)

// priceFormat accepts dollars with at most two decimals.
var priceFormat = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// AudiobookNew renders the empty create form.
func (a *Admin) AudiobookNew(w http.ResponseWriter, r *http.Request) {
	a.renderAudiobookForm(w, r, audiobookForm{Language: defaultLanguage}, map[string]string{}, "", http.StatusOK)
}

// AudiobookCreate validates the form and runs the creation: the audiobook
// first, then each chapter in order. A creation that stops after the
// audiobook exists is recorded and the user is sent to the resume list.
func (a *Admin) AudiobookCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := audiobookFromForm(r.PostForm)
	errs := validateForm(form)
	if errs == nil {
		errs = map[string]string{}
	}
	cents, msg := parsePrice(form.Price)
	if msg != "" {
		errs["price"] = msg
	}
	if len(errs) > 0 {
		a.renderAudiobookForm(w, r, form, errs, "", http.StatusUnprocessableEntity)
		return
	}

	data := models.AudiobookCreate{
		Title:           form.Title,
		Slug:            form.Slug,
		ISBN:            form.ISBN,
		Description:     markdown.Sanitize(form.Description),
		AuthorName:      form.AuthorName,
		NarratorName:    form.NarratorName,
		DurationSeconds: totalDuration(form.Chapters),
		PriceCents:      cents,
		Language:        form.Language,
		PublicationDate: form.PublicationDate,
		SampleURL:       form.SampleURL,
		CoverImageURL:   form.CoverImageURL,
		CategoryIDs:     form.CategoryIDs,
	}
	if data.CategoryIDs == nil {
		data.CategoryIDs = []string{}
	}

	creator := catalog.NewCreator(a.api, a.sagas)
	saga, err := creator.Create(r.Context(), data, form.Chapters)
	var partial *catalog.PartialError
	switch {
	case errors.As(err, &partial) && partial.Resumable:
		http.Redirect(w, r, "/admin/sagas?partial="+url.QueryEscape(partial.SagaID.String()), http.StatusSeeOther)
		return
	case partial != nil:
		slog.Error("audiobook partially created without a journal", "audiobook", partial.AudiobookID, "error", err)
		msg := fmt.Sprintf("Audiobook %s was created but only %d of %d chapters were saved, and the progress could not be recorded for resuming: %s",
			partial.AudiobookID, partial.Persisted, partial.Total, apiMessage(partial.Err))
		a.renderAudiobookForm(w, r, form, errs, msg, http.StatusBadGateway)
		return
	case err != nil:
		slog.Error("create audiobook failed", "title", form.Title, "error", err)
		a.renderAudiobookForm(w, r, form, errs, "Could not create the audiobook: "+apiMessage(err), apiStatus(err))
		return
	}

	slog.Info("audiobook created", "audiobook", saga.AudiobookID, "chapters", saga.Persisted)
	http.Redirect(w, r, "/admin/products?search="+url.QueryEscape(form.Title), http.StatusSeeOther)
}

// AudiobookPreview renders the description as sanitized HTML for the
// live preview under the textarea.
func (a *Admin) AudiobookPreview(w http.ResponseWriter, r *http.Request) {
	var preview template.HTML
	if src := strings.TrimSpace(r.FormValue("description")); src != "" {
		out, err := markdown.ToHTML(src)
		if err != nil {
			slog.Warn("markdown preview failed", "error", err)
		}
		preview = out
	}
	a.renderer.Partial(w, r, "audiobook_new", "preview", &render.PageData{
		Data: map[string]any{"PreviewHTML": preview},
	})
}

func (a *Admin) renderAudiobookForm(w http.ResponseWriter, r *http.Request, form audiobookForm, errs map[string]string, msg string, status int) {
	data := map[string]any{
		"Form":     form,
		"Errors":   errs,
		"Error":    msg,
		"MaxAudio": humanize.IBytes(uint64(a.limits.For(upload.KindAudio))),
		"MaxImage": humanize.IBytes(uint64(a.limits.For(upload.KindImage))),
	}

	tree, err := a.categoryTree(r.Context())
	if err != nil {
		slog.Warn("load category tree failed", "error", err)
		if msg == "" {
			data["Error"] = "Categories could not be loaded: " + err.Error()
		}
	}
	data["CategoryOptions"] = models.FlattenCategories(tree)

	if src := strings.TrimSpace(form.Description); src != "" {
		if out, err := markdown.ToHTML(src); err == nil {
			data["PreviewHTML"] = out
		}
	}

	a.renderer.Page(w, r, "audiobook_new", &render.PageData{
		Title:  "New Audiobook",
		Status: status,
		Data:   data,
	})
}

// audiobookFromForm reads the submitted fields. An empty slug is generated
// from the title.
func audiobookFromForm(v url.Values) audiobookForm {
	get := func(k string) string { return strings.TrimSpace(v.Get(k)) }
	form := audiobookForm{
		Title:           get("title"),
		Slug:            get("slug"),
		AuthorName:      get("author_name"),
		NarratorName:    get("narrator_name"),
		ISBN:            get("isbn"),
		Price:           get("price"),
		Language:        get("language"),
		PublicationDate: get("publication_date"),
		CoverImageURL:   get("cover_image_url"),
		SampleURL:       get("sample_url"),
		Description:     strings.TrimSpace(v.Get("description")),
		Chapters:        chaptersFromForm(v),
	}
	if form.Slug == "" {
		form.Slug = slug.Generate(form.Title)
	} else {
		form.Slug = slug.Generate(form.Slug)
	}
	if form.Language == "" {
		form.Language = defaultLanguage
	}
	for _, id := range v["category_ids"] {
		if id = strings.TrimSpace(id); id != "" {
			form.CategoryIDs = append(form.CategoryIDs, id)
		}
	}
	return form
}

// chaptersFromForm collects chapters[N].* inputs ordered by N. Indices
// may have gaps after rows are removed in the browser. Rows left
// completely blank are dropped.
func chaptersFromForm(v url.Values) []models.Chapter {
	rows := map[int]*models.Chapter{}
	for key, vals := range v {
		m := chapterKey.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ch := rows[idx]
		if ch == nil {
			ch = &models.Chapter{}
			rows[idx] = ch
		}
		val := strings.TrimSpace(vals[0])
		switch m[2] {
		case "title":
			ch.Title = val
		case "url":
			ch.FileURL = val
		case "duration":
			ch.DurationSeconds, _ = strconv.Atoi(val)
		case "size":
			ch.FileSizeBytes, _ = strconv.ParseInt(val, 10, 64)
		case "mime":
			ch.MimeType = val
		}
	}

	indices := make([]int, 0, len(rows))
	for idx, ch := range rows {
		if ch.Title == "" && ch.FileURL == "" {
			continue
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]models.Chapter, 0, len(indices))
	for _, idx := range indices {
		out = append(out, *rows[idx])
	}
	return out
}

// maxPriceDollars caps the price field.
const maxPriceDollars = 1_000_000

// parsePrice converts a dollar amount such as "12.99" or "$5" to cents.
// The message is empty when the amount is valid.
func parsePrice(s string) (int, string) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, "Price is required"
	}
	if !priceFormat.MatchString(s) {
		return 0, "Price must be an amount like 12.99"
	}
	whole, frac, _ := strings.Cut(s, ".")
	dollars, err := strconv.Atoi(whole)
	if err != nil || dollars > maxPriceDollars {
		return 0, fmt.Sprintf("Price must be at most %s", models.FormatCents(maxPriceDollars*100))
	}
	for len(frac) < 2 {
		frac += "0"
	}
	c, _ := strconv.Atoi(frac)
	return dollars*100 + c, ""
}

func totalDuration(chapters []models.Chapter) int {
	total := 0
	for _, ch := range chapters {
		total += ch.DurationSeconds
	}
	return total
}
