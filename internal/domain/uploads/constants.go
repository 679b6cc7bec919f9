package uploads

type Folder string

const (
	FolderImage Folder = "image"
	FolderMedia Folder = "media"
	FolderDoc   Folder = "doc"
)

// MaxFilesPerField caps how many files a single multipart field may carry.
const MaxFilesPerField = 3

var fieldFolders = map[string]Folder{
	"employeeSignature1":     FolderImage,
	"employeeSignature2":     FolderImage,
	"employeeSignature3":     FolderImage,
	"employeeSignature4":     FolderImage,
	"employeeSignature5":     FolderImage,
	"employeeSignature6":     FolderImage,
	"employeeSignature7":     FolderImage,
	"employeeSignature8":     FolderImage,
	"employeeSignature9":     FolderImage,
	"employeeSignature10":    FolderImage,
	"supervisorSignature":    FolderImage,
	"directDepositImage":     FolderImage,
	"timeSheetPdfOrImage":    FolderImage,
	"photoIdImage":           FolderImage,
	"socialSecurityImage":    FolderImage,
	"residentCardImage":      FolderImage,
	"workAuthorizationImage": FolderImage,
	"image":                  FolderImage,
	"signature":              FolderImage,

	"media": FolderMedia,

	"directDepositPdf":          FolderDoc,
	"photoIdPdf":                FolderDoc,
	"socialSecurityPdf":         FolderDoc,
	"residentCardPdf":           FolderDoc,
	"workAuthorizationPdf":      FolderDoc,
	"doc":                       FolderDoc,
	"accountFile":               FolderDoc,
	"residentCard":              FolderDoc,
	"socialSecurityCard":        FolderDoc,
	"photoId":                   FolderDoc,
	"workAuthorizationDocument": FolderDoc,
}

var allowedMIME = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/jpg":       true,
	"video/mp4":       true,
	"audio/mpeg":      true,
	"application/pdf": true,
}
