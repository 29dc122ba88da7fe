package store

import "reflect"

// hashFields はredisタグ付き構造体をHSET用のフィールドmapに変換する。
// go-redisは独自のstring型（model.Resultなど）を書き込めないため、
// Kindに応じてstring/int64/boolへ正規化する。
// 読み出し側はgo-redisのScanがredisタグを解釈するため変換不要。
func hashFields(v any) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(v))
	typ := val.Type()

	fields := make(map[string]any, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("redis")
		if tag == "" || tag == "-" {
			continue
		}
		f := val.Field(i)
		switch f.Kind() {
		case reflect.String:
			fields[tag] = f.String()
		case reflect.Int, reflect.Int32, reflect.Int64:
			fields[tag] = f.Int()
		case reflect.Bool:
			fields[tag] = f.Bool()
		default:
			fields[tag] = f.Interface()
		}
	}
	return fields
}
