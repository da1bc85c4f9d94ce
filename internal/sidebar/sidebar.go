// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sidebar maps navigation descriptors to renderable links and
// marks the entry matching the current route. It holds no state.
package sidebar

import "strings"

// Item describes one navigation entry. Items without an Href render as
// plain labels. Aliases are extra paths that also make the item active.
type Item struct {
	Name     string
	Href     string
	Icon     string
	Badge    string
	Aliases  []string
	Children []Item
}

// Section groups items under a heading.
type Section struct {
	Title string
	Items []Item
}

// Link is an Item resolved against the current path.
type Link struct {
	Name     string
	Href     string
	Icon     string
	Badge    string
	Active   bool
	Expanded bool // a descendant is active
	Children []Link
}

// SectionView is a Section resolved against the current path.
type SectionView struct {
	Title string
	Links []Link
}

// Render resolves items against the current request path.
func Render(items []Item, current string) []Link {
	current = normalize(current)
	links := make([]Link, 0, len(items))
	for _, it := range items {
		links = append(links, resolve(it, current))
	}
	return links
}

// RenderSections resolves every section against the current request path.
func RenderSections(sections []Section, current string) []SectionView {
	out := make([]SectionView, 0, len(sections))
	for _, s := range sections {
		out = append(out, SectionView{Title: s.Title, Links: Render(s.Items, current)})
	}
	return out
}

func resolve(it Item, current string) Link {
	l := Link{
		Name:   it.Name,
		Href:   it.Href,
		Icon:   it.Icon,
		Badge:  it.Badge,
		Active: matches(it, current),
	}
	if len(it.Children) > 0 {
		l.Children = make([]Link, 0, len(it.Children))
		for _, c := range it.Children {
			child := resolve(c, current)
			if child.Active || child.Expanded {
				l.Expanded = true
			}
			l.Children = append(l.Children, child)
		}
	}
	return l
}

func matches(it Item, current string) bool {
	if it.Href == "" {
		return false
	}
	if normalize(it.Href) == current {
		return true
	}
	for _, a := range it.Aliases {
		if normalize(a) == current {
			return true
		}
	}
	return false
}

// normalize drops a trailing slash so "/admin/" and "/admin" compare equal.
func normalize(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// AdminMenu returns the admin navigation.
func AdminMenu() []Item {
	return []Item{
		{Name: "Dashboard", Href: "/admin", Icon: "📊", Aliases: []string{"/admin/dashboard"}},
		{Name: "Products", Href: "/admin/products", Icon: "🎧", Aliases: []string{"/admin/audiobooks/new", "/admin/sagas"}},
		{Name: "Orders", Href: "/admin/orders", Icon: "🧾"},
		{Name: "Customers", Href: "/admin/customers", Icon: "👥"},
		{Name: "Reviews", Href: "/admin/reviews", Icon: "⭐"},
		{Name: "User Management", Href: "/admin/users", Icon: "🔐"},
	}
}

// Active returns the name of the active link, searching depth-first, or "".
func Active(links []Link) string {
	for _, l := range links {
		if l.Active {
			return l.Name
		}
		if name := Active(l.Children); name != "" {
			return name
		}
	}
	return ""
}
