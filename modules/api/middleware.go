package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-manager/i18n"
)

const (
	corsMethods = "GET,POST,PUT,DELETE,PATCH,OPTIONS"
	corsHeaders = "X-Requested-With,Content-Type,Accept,Origin,Authorization,Accept-Language"
)

// LocaleMiddleware negotiates Accept-Language and stores the result in the
// request's user context.
func LocaleMiddleware(catalog *i18n.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag := catalog.Match(c.Get(fiber.HeaderAcceptLanguage))
		c.SetUserContext(i18n.WithLocale(c.UserContext(), tag))
		c.Set(fiber.HeaderContentLanguage, tag.String())
		return c.Next()
	}
}

// PreflightMiddleware answers every OPTIONS request with 200 and an empty
// body, whether or not a route exists for the path.
func PreflightMiddleware(allowedOrigins string) fiber.Handler {
	origins := splitOrigins(allowedOrigins)
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodOptions {
			return c.Next()
		}
		if origin := matchOrigin(origins, c.Get(fiber.HeaderOrigin)); origin != "" {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			if origin != "*" {
				c.Vary(fiber.HeaderOrigin)
			}
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, corsMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsHeaders)
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Status(fiber.StatusOK)
		return nil
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func matchOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}

// decodeInput returns the JSON object in the request body. Bodies that are
// not declared as JSON, are empty, or do not decode to an object yield an
// empty input, which validation then rejects field by field.
func decodeInput(c *fiber.Ctx) map[string]any {
	input := map[string]any{}
	if !strings.Contains(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		return input
	}
	if len(c.Body()) == 0 {
		return input
	}

	var decoded map[string]any
	if err := c.BodyParser(&decoded); err != nil || decoded == nil {
		return input
	}
	return decoded
}
