package aggregate

// Field is one canonical output category: the folded wire key and the label
// shown in reports.
type Field struct {
	Key   string
	Label string
}

// SourcesKey is reserved: its elements are provenance objects, not values.
const SourcesKey = "sources"

// SourcePlaceholder labels a source that has neither a name nor a url.
const SourcePlaceholder = "Источник"

// DefaultFields is the fixed field table in report order.
var DefaultFields = []Field{
	{Key: "phone", Label: "Телефоны"},
	{Key: "opsos", Label: "Оператор/Регион"},
	{Key: "fio", Label: "ФИО"},
	{Key: "names", Label: "Имена/Псевдонимы"},
	{Key: "born", Label: "Дата рождения"},
	{Key: "address", Label: "Адреса"},
	{Key: "transport", Label: "Транспорт"},
	{Key: "email", Label: "Email"},
	{Key: "password", Label: "Пароли"},
	{Key: "url", Label: "URL/Профили"},
	{Key: "username", Label: "Юзернеймы"},
	{Key: "icq", Label: "ICQ"},
	{Key: "skype", Label: "Skype"},
	{Key: "telegram", Label: "Telegram"},
	{Key: "work", Label: "Работа"},
	{Key: "workaddress", Label: "Адреса работы"},
	{Key: "passport", Label: "Паспорта"},
	{Key: "inn", Label: "ИНН"},
	{Key: "snils", Label: "СНИЛС"},
	{Key: "debts", Label: "Долги"},
	{Key: "relatives", Label: "Родственники"},
}
