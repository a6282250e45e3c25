package config

import "time"

// Application constants
const (
	AppName   = "fedlease"
	EnvPrefix = "FEDLEASE"

	// Registry
	DefaultBaseURL      = "https://fedresurs.ru"
	CompaniesEndpoint   = "/backend/companies"
	PublicationsPath    = "/backend/companies/%s/publications"
	MessageEndpoint     = "/backend/sfactmessages/%s"
	CompanyRefererPath  = "/company/%s"
	SearchRefererPath   = "/search/entity?code=%s"
	MessageRefererPath  = "/sfactmessage/%s"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (compatible; fedlease/1.0)"
	RegistryQueryLayout = "2006-01-02T15:04:05.000Z"

	// Pagination
	DefaultPageSize      = 15
	DefaultOffsetCeiling = 525

	// Pacing between registry calls
	DefaultRateInterval = time.Second
	RateModeFixed       = "fixed"
	RateModeToken       = "token"

	// Message content
	LeaseNoticeTitle     = "Заключение договора финансовой аренды (лизинга)"
	NotSpecified         = "Не указано"
	BlockedMessageFormat = "Сообщение заблокировано! Ссылка: %s"
	ContractFormat       = "%s от %s"
	LeaseTermFormat      = "%s - %s"
	ClassificationFormat = "%s, %s"

	// Files
	DefaultInputFile      = "INN to parse.txt"
	DefaultOutputDir      = "."
	DefaultLogsDir        = "logs"
	OutputTimestampLayout = "02-01-2006_15-04-05"
	OutputSheetName       = "Лизинг"
	InputDateLayout       = "2006-01-02"
)

// Operator-facing messages
const (
	MsgConnectionFailed = "Не удается подключиться. Проверьте подключение к сети!"
	MsgTimeout          = "Превышено время ожидания от сервера!"
	MsgInputFileMissing = "Не удается открыть файл с информацией об ИНН."
	MsgBadDateInput     = "Неправильно введена дата, либо дата начала больше даты конца! Поробуйте еще раз."
	MsgPromptStartDate  = "Введите дату начала в формате 2022,1,1: "
	MsgPromptEndDate    = "Введите дату конца в формате 2022,2,1: "
	MsgProcessing       = "Обрабатываю сообщения компании с ИНН %s за период с %s по %s. Это займет некоторое время..."
	MsgCompanyNotFound  = "Не найдено компаний с таким ИНН: %s"
	MsgMessagesFound    = "Найдено сообщений: %d"
	MsgUnknownStructure = "Неизвестная структура сообщения №%s"
	MsgDone             = "Готово!"
)
