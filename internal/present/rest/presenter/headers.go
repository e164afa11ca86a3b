package presenter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// Alert sets the notification headers a client shows after a write,
// e.g. X-rfbApp-alert: rfbApp.rfbEvent.created.
func Alert(c echo.Context, app, entity string, action domain.ChangeAction, param string) {
	h := c.Response().Header()
	h.Set(fmt.Sprintf("X-%s-alert", app), fmt.Sprintf("%s.%s.%s", app, entity, action))
	h.Set(fmt.Sprintf("X-%s-params", app), url.QueryEscape(param))
}

// Pagination sets X-Total-Count and an RFC 5988 Link header with next,
// prev, last and first relations.
func Pagination[T any](c echo.Context, page domain.Page[T]) {
	h := c.Response().Header()
	h.Set(domain.TotalCountHeader, strconv.FormatInt(page.Total, 10))
	if !page.Pageable.IsPaged() {
		return
	}

	number := page.Pageable.Page
	last := max(page.TotalPages()-1, 0)

	var links []string
	if number < last {
		links = append(links, pageLink(c, number+1, page.Pageable.Size, "next"))
	}
	if number > 0 {
		links = append(links, pageLink(c, number-1, page.Pageable.Size, "prev"))
	}
	links = append(links, pageLink(c, last, page.Pageable.Size, "last"))
	links = append(links, pageLink(c, 0, page.Pageable.Size, "first"))
	h.Set(domain.LinkHeader, strings.Join(links, ","))
}

func pageLink(c echo.Context, page, size int, rel string) string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return fmt.Sprintf(`<%s>; rel="%s"`, u.RequestURI(), rel)
}
