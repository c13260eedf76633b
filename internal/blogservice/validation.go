package blogservice

import (
	"github.com/sushihentaime/blogfeed/internal/common"
)

const invalidTextMessage = "must be valid UTF-8 without NUL characters"

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(common.StorableText(title), "title", invalidTextMessage)
	v.Check(v.CheckStringLength(title, 1, MaxTitleLength), "title", "must not be more than 100 characters long")
}

func validateText(v *common.Validator, text string) {
	v.Check(common.StorableText(text), "text", invalidTextMessage)
	v.Check(v.CheckStringLength(text, 0, MaxTextLength), "text", "must not be more than 3000 characters long")
}
