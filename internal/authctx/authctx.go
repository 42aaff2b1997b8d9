package authctx

import (
	"context"
)

type ctxKey string

const uidKey ctxKey = "uid"

func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidKey, uid)
}

func UID(ctx context.Context) (string, bool) {
	v := ctx.Value(uidKey)
	uid, ok := v.(string)
	return uid, ok && uid != ""
}
