package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

// pathID parses a numeric path parameter. Range checks are left to the service.
func pathID(c *fiber.Ctx, resource string) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequest(
			fmt.Sprintf("invalid %s id %q", resource, raw),
			map[string]any{"id": raw},
		)
	}
	return id, nil
}

// pathKey returns a decoded string path parameter.
func pathKey(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.NewBadRequest(
			fmt.Sprintf("malformed %s", name),
			map[string]any{name: raw},
		)
	}
	return value, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid payload", map[string]any{"reason": err.Error()})
	}
	return nil
}

func checkBodyID(resource string, pathID, bodyID int64) error {
	if pathID != bodyID {
		return apperrors.NewBadRequest(
			fmt.Sprintf("%s id in path (%d) does not match id in body (%d)", resource, pathID, bodyID),
			map[string]any{"path_id": pathID, "body_id": bodyID},
		)
	}
	return nil
}
