package model

// 源表列名。列名需与上传文件表头完全一致（含换行符）
const (
	ColReqDate          = "Req Date\n (DD-MMM-YY)"
	ColReqApprovedOn    = "Req Approved on (DD-MMM-YY)"
	ColReqAssigned      = "Requisition Assigned"
	ColDOJ              = "DOJ\n(DD-MMM-YY)"
	ColBroadStatus      = "Broad Status"
	ColBusinessUnit     = "Business Unit"
	ColDepartment       = "Department"
	ColLocation         = "Location"
	ColCurrentTAT       = "Current TAT\n(Days since Req approved)"
	ColJoiningTAT       = "Joining TAT\n(Req Assigned to Joining)"
	ColProfilesShared   = "Total nos of profiles shared"
	ColInterviewed      = "Interviewed"
	ColGender           = "Gender"
	ColCandidateSource  = "Candidate Source"
	ColNewOrReplacement = "New/ Replacement"
)

// DateColumns 加载时按日期解析的列
var DateColumns = []string{
	ColReqDate,
	ColReqApprovedOn,
	ColReqAssigned,
	ColDOJ,
}

// FilterColumns 侧边栏可筛选列
var FilterColumns = []string{
	ColBusinessUnit,
	ColDepartment,
	ColLocation,
}

// ExpectedColumns 无数据时提示用户的期望列
var ExpectedColumns = []string{
	ColReqDate,
	ColReqApprovedOn,
	ColReqAssigned,
	ColDOJ,
	ColBroadStatus,
	ColBusinessUnit,
	ColDepartment,
	ColLocation,
	ColCurrentTAT,
	ColJoiningTAT,
	ColProfilesShared,
	ColInterviewed,
	ColGender,
	ColCandidateSource,
	ColNewOrReplacement,
}

// IsDateColumn 是否日期列
func IsDateColumn(column string) bool {
	for _, c := range DateColumns {
		if c == column {
			return true
		}
	}
	return false
}
