package middleware

import "github.com/gin-gonic/gin"

const responseMetaKey = "response_meta"

// SetMeta attaches a key to the meta block of the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	meta, _ := c.Get(responseMetaKey)
	typed, ok := meta.(map[string]interface{})
	if !ok {
		typed = make(map[string]interface{})
		c.Set(responseMetaKey, typed)
	}
	typed[key] = value
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, "cache_hit", hit)
}

// ResponseMeta returns the meta collected for the current response, or nil.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta, _ := c.Get(responseMetaKey)
	typed, _ := meta.(map[string]interface{})
	return typed
}
