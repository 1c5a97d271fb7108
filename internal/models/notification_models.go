package models

// NotificationBatch is the S3-event-shaped envelope delivered on the
// notifications topic. One message may carry several object arrivals.
type NotificationBatch struct {
	Records []FileArrivalNotification `json:"Records"`
}

type FileArrivalNotification struct {
	S3 S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key string `json:"key"`
}
