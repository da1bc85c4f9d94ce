// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"audiobook-admin/internal/catalog"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/slug"
)

// Products renders the audiobook list with its filter bar. Query
// parameters: search, category (a name, "All" for every category),
// status and page.
func (a *Admin) Products(w http.ResponseWriter, r *http.Request) {
	data := a.productsData(r.Context(), r.URL.Query())
	data["Form"] = models.CategoryCreate{IsActive: true}
	data["FormErrors"] = map[string]string{}

	a.renderer.Page(w, r, "products", &render.PageData{
		Title: "Products",
		Data:  data,
	})
}

// productsData loads categories and the requested audiobook page into
// fresh stores and returns the template data.
func (a *Admin) productsData(ctx context.Context, q url.Values) map[string]any {
	cats := catalog.NewCategoryStore(a.api)
	if err := cats.Fetch(ctx); err != nil {
		slog.Warn("list categories failed", "error", err)
	}

	books := catalog.NewAudiobookStore(a.api)
	books.SetSearchTerm(strings.TrimSpace(q.Get("search")))
	books.SetSelectedCategory(q.Get("category"))
	if status := q.Get("status"); models.ValidStatus(status) {
		books.SetStatusFilter(status)
	}
	page, _ := strconv.Atoi(q.Get("page"))
	books.SetPage(page)

	var params catalog.FetchParams
	if page > 0 {
		params.Page = page
	}
	filters := books.Snapshot().Filters
	if filters.SelectedCategory != catalog.AllCategories {
		if id, ok := cats.IDByName(filters.SelectedCategory); ok {
			params.CategoryID = id
		}
	}
	if err := books.Fetch(ctx, params); err != nil {
		slog.Error("list audiobooks failed", "error", err)
	}

	state := books.Snapshot()
	catState := cats.Snapshot()
	prev, next := pageURLs(state.Filters, state.Pagination)

	parents := models.FlattenCategories(catState.Items)
	if tree, err := a.categoryTree(ctx); err == nil {
		parents = models.FlattenCategories(tree)
	} else {
		slog.Warn("load category tree failed", "error", err)
	}

	return map[string]any{
		"State":         state,
		"Visible":       catalog.Visible(state.Items, state.Filters),
		"CategoryNames": cats.Names(),
		"CategoryError": catState.Error,
		"Statuses":      models.AudiobookStatuses,
		"ParentOptions": parents,
		"PrevURL":       prev,
		"NextURL":       next,
	}
}

// pageURLs builds the previous and next page links, keeping the filters.
// An empty string means there is no such page.
func pageURLs(f catalog.Filters, p models.Pagination) (string, string) {
	link := func(page int) string {
		q := url.Values{}
		if f.SearchTerm != "" {
			q.Set("search", f.SearchTerm)
		}
		if f.SelectedCategory != "" && f.SelectedCategory != catalog.AllCategories {
			q.Set("category", f.SelectedCategory)
		}
		if f.StatusFilter != "" {
			q.Set("status", f.StatusFilter)
		}
		q.Set("page", strconv.Itoa(page))
		return "/admin/products?" + q.Encode()
	}

	var prev, next string
	if p.Page > 1 {
		prev = link(p.Page - 1)
	}
	if p.Pages > p.Page {
		next = link(p.Page + 1)
	}
	return prev, next
}

// CategoryCreate handles the category dialog. Invalid input and backend
// failures re-render the form with the dialog still open; success reloads
// the products page.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := categoryFromForm(r)
	if errs := validateForm(form); errs != nil {
		a.renderCategoryForm(w, r, form, errs, "")
		return
	}

	cats := catalog.NewCategoryStore(a.api)
	created, err := cats.Create(r.Context(), form)
	if err != nil {
		slog.Error("create category failed", "name", form.Name, "error", err)
		a.renderCategoryForm(w, r, form, map[string]string{}, cats.Snapshot().Error)
		return
	}
	if a.tree != nil {
		a.tree.Invalidate(r.Context())
	}
	slog.Info("category created", "id", created.ID, "name", created.Name)

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// categoryFromForm reads the dialog fields. An empty slug is generated
// from the name.
func categoryFromForm(r *http.Request) models.CategoryCreate {
	form := models.CategoryCreate{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: strings.TrimSpace(r.FormValue("description")),
		IsActive:    r.FormValue("is_active") == "true",
	}
	if form.Slug == "" {
		form.Slug = slug.Generate(form.Name)
	}
	if parent := strings.TrimSpace(r.FormValue("parent_id")); parent != "" {
		form.ParentID = &parent
	}
	if so := strings.TrimSpace(r.FormValue("sort_order")); so != "" {
		n, err := strconv.Atoi(so)
		if err != nil {
			n = -1
		}
		form.SortOrder = n
	}
	return form
}

// renderCategoryForm answers HTMX with the form fragment. A plain form
// post gets the whole products page with the dialog open.
func (a *Admin) renderCategoryForm(w http.ResponseWriter, r *http.Request, form models.CategoryCreate, errs map[string]string, msg string) {
	if isHTMX(r) {
		data := map[string]any{
			"Form":       form,
			"FormErrors": errs,
			"FormError":  msg,
		}
		if tree, err := a.categoryTree(r.Context()); err == nil {
			data["ParentOptions"] = models.FlattenCategories(tree)
		} else {
			slog.Warn("load category tree failed", "error", err)
		}
		a.renderer.Partial(w, r, "products", "category_form", &render.PageData{Data: data})
		return
	}

	data := a.productsData(r.Context(), url.Values{})
	data["Form"] = form
	data["FormErrors"] = errs
	data["FormError"] = msg
	data["OpenDialog"] = true
	a.renderer.Page(w, r, "products", &render.PageData{
		Title:  "Products",
		Status: http.StatusUnprocessableEntity,
		Data:   data,
	})
}
