// Package controller implements the HTTP handlers.
package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ItemsPerPage is the page size used by every paginated endpoint.
const ItemsPerPage = 10

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// paginate returns the [start, end) slice bounds for the page.
func paginate(total, page int) (start, end int) {
	start = (page - 1) * ItemsPerPage
	if start >= total {
		return total, total
	}
	end = start + ItemsPerPage
	if end > total {
		end = total
	}
	return start, end
}
