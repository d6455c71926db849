package i18n

// Message keys shared by the task module and the HTTP layer.
const (
	ErrValidation       = "error.validation"
	ErrInternal         = "error.internal"
	ErrNotFound         = "error.not_found"
	ErrMethodNotAllowed = "error.method_not_allowed"
	ErrUnauthorized     = "error.unauthorized"
	ErrConflict         = "error.conflict"

	TaskNotFound      = "task.not_found"
	TaskCreated       = "task.created"
	TaskUpdated       = "task.updated"
	TaskDeleted       = "task.deleted"
	TaskStatusUpdated = "task.status_updated"

	InvalidValue = "validation.invalid"
)

// RuleKey is the catalog key for a rule failure on a field, for example
// "validation.title.notEmpty".
func RuleKey(field, kind string) string {
	return "validation." + field + "." + kind
}

var english = map[string]string{
	ErrValidation:       "Validation failed",
	ErrInternal:         "Internal server error",
	ErrNotFound:         "Resource not found",
	ErrMethodNotAllowed: "Method not allowed",
	ErrUnauthorized:     "Unauthorized",
	ErrConflict:         "Conflict",

	TaskNotFound:      "Task not found",
	TaskCreated:       "Task created successfully",
	TaskUpdated:       "Task updated successfully",
	TaskDeleted:       "Task deleted successfully",
	TaskStatusUpdated: "Task status updated successfully",

	InvalidValue: "Invalid value",

	"validation.title.notEmpty":         "Title must not be empty",
	"validation.title.stringType":       "Title must be a string",
	"validation.title.length":           "Title must be between 1 and 255 characters",
	"validation.description.stringType": "Description must be a string",
	"validation.description.length":     "Description must be at most 10,000 characters",
}

var brazilianPortuguese = map[string]string{
	ErrValidation:       "Falha na validação",
	ErrInternal:         "Erro interno do servidor",
	ErrNotFound:         "Recurso não encontrado",
	ErrMethodNotAllowed: "Método não permitido",
	ErrUnauthorized:     "Não autorizado",
	ErrConflict:         "Conflito",

	TaskNotFound:      "Tarefa não encontrada",
	TaskCreated:       "Tarefa criada com sucesso",
	TaskUpdated:       "Tarefa atualizada com sucesso",
	TaskDeleted:       "Tarefa excluída com sucesso",
	TaskStatusUpdated: "Status da tarefa atualizado com sucesso",

	InvalidValue: "Valor inválido",

	"validation.title.notEmpty":         "O título não pode ser vazio",
	"validation.title.stringType":       "O título deve ser do tipo texto",
	"validation.title.length":           "O título deve ter entre 1 e 255 caracteres",
	"validation.description.stringType": "A descrição deve ser do tipo texto",
	"validation.description.length":     "A descrição deve ter no máximo 10.000 caracteres",
}
